// Package linux translates m68k Linux syscalls into host x86-64 syscalls:
// number remapping, struct layout translation (big-endian, 64-bit time_t),
// and the handful of syscalls whose semantics need bespoke handling (mmap,
// brk, shmat, execve, the sysvipc multiplexer, and the two m68k-only atomic
// helpers). futex has no dedicated handler: it goes through generic
// passthrough, which takes all six arguments from D1..D6 and does not read
// the stack.
package linux

// number maps one m68k syscall number to its x86-64 equivalent and records
// whether a host equivalent exists. Numbers without one, like numbers
// missing from the table, return -ENOSYS unless a dedicated handler covers
// them.
type number struct {
	host      int64
	hasHost   bool
	name      string
}

// table is the complete m68k -> x86-64 syscall number mapping extracted
// from the m68k uclibc syscall table. Entries with hasHost=false have no
// host equivalent (m68k-only bookkeeping syscalls, or ones the emulator
// itself implements directly, like the two atomic helpers).
var table = map[uint32]number{
	0:   {219, true, "restart_syscall"},
	1:   {60, true, "exit"},
	2:   {57, true, "fork"},
	3:   {0, true, "read"},
	4:   {1, true, "write"},
	5:   {2, true, "open"},
	6:   {3, true, "close"},
	7:   {61, true, "waitpid"},
	8:   {85, true, "creat"},
	9:   {86, true, "link"},
	10:  {87, true, "unlink"},
	11:  {59, true, "execve"},
	12:  {80, true, "chdir"},
	13:  {201, true, "time"},
	14:  {133, true, "mknod"},
	15:  {90, true, "chmod"},
	16:  {92, true, "chown"},
	19:  {8, true, "lseek"},
	20:  {39, true, "getpid"},
	21:  {165, true, "mount"},
	23:  {105, true, "setuid"},
	24:  {102, true, "getuid"},
	26:  {101, true, "ptrace"},
	27:  {37, true, "alarm"},
	29:  {34, true, "pause"},
	30:  {132, true, "utime"},
	33:  {21, true, "access"},
	36:  {162, true, "sync"},
	37:  {62, true, "kill"},
	38:  {82, true, "rename"},
	39:  {83, true, "mkdir"},
	40:  {84, true, "rmdir"},
	41:  {32, true, "dup"},
	42:  {22, true, "pipe"},
	43:  {100, true, "times"},
	45:  {12, true, "brk"},
	46:  {106, true, "setgid"},
	47:  {104, true, "getgid"},
	49:  {107, true, "geteuid"},
	50:  {108, true, "getegid"},
	51:  {163, true, "acct"},
	52:  {166, true, "umount2"},
	54:  {16, true, "ioctl"},
	55:  {72, true, "fcntl"},
	57:  {109, true, "setpgid"},
	60:  {95, true, "umask"},
	61:  {161, true, "chroot"},
	62:  {136, true, "ustat"},
	63:  {33, true, "dup2"},
	64:  {110, true, "getppid"},
	65:  {111, true, "getpgrp"},
	66:  {112, true, "setsid"},
	70:  {113, true, "setreuid"},
	71:  {114, true, "setregid"},
	74:  {170, true, "sethostname"},
	75:  {160, true, "setrlimit"},
	76:  {97, true, "getrlimit"},
	77:  {98, true, "getrusage"},
	78:  {96, true, "gettimeofday"},
	79:  {164, true, "settimeofday"},
	80:  {115, true, "getgroups"},
	81:  {116, true, "setgroups"},
	82:  {23, true, "select"},
	83:  {88, true, "symlink"},
	85:  {89, true, "readlink"},
	86:  {134, true, "uselib"},
	87:  {167, true, "swapon"},
	88:  {169, true, "reboot"},
	90:  {9, true, "mmap"},
	91:  {11, true, "munmap"},
	92:  {76, true, "truncate"},
	93:  {77, true, "ftruncate"},
	94:  {91, true, "fchmod"},
	95:  {93, true, "fchown"},
	96:  {140, true, "getpriority"},
	97:  {141, true, "setpriority"},
	99:  {137, true, "statfs"},
	100: {138, true, "fstatfs"},
	103: {103, true, "syslog"},
	104: {38, true, "setitimer"},
	105: {36, true, "getitimer"},
	106: {4, true, "stat"},
	107: {6, true, "lstat"},
	108: {5, true, "fstat"},
	111: {153, true, "vhangup"},
	114: {61, true, "wait4"},
	115: {168, true, "swapoff"},
	116: {99, true, "sysinfo"},
	117: {0, false, "ipc"},
	118: {74, true, "fsync"},
	120: {56, true, "clone"},
	121: {171, true, "setdomainname"},
	122: {63, true, "uname"},
	124: {159, true, "adjtimex"},
	125: {10, true, "mprotect"},
	127: {174, true, "create_module"},
	128: {175, true, "init_module"},
	129: {176, true, "delete_module"},
	130: {177, true, "get_kernel_syms"},
	131: {179, true, "quotactl"},
	132: {121, true, "getpgid"},
	133: {81, true, "fchdir"},
	135: {139, true, "sysfs"},
	136: {135, true, "personality"},
	138: {122, true, "setfsuid"},
	139: {123, true, "setfsgid"},
	140: {8, true, "_llseek"},
	141: {78, true, "getdents"},
	143: {73, true, "flock"},
	144: {26, true, "msync"},
	145: {19, true, "readv"},
	146: {20, true, "writev"},
	147: {124, true, "getsid"},
	148: {75, true, "fdatasync"},
	149: {156, true, "_sysctl"},
	150: {149, true, "mlock"},
	151: {150, true, "munlock"},
	152: {151, true, "mlockall"},
	153: {152, true, "munlockall"},
	154: {142, true, "sched_setparam"},
	155: {143, true, "sched_getparam"},
	156: {144, true, "sched_setscheduler"},
	157: {145, true, "sched_getscheduler"},
	158: {24, true, "sched_yield"},
	159: {146, true, "sched_get_priority_max"},
	160: {147, true, "sched_get_priority_min"},
	161: {148, true, "sched_rr_get_interval"},
	162: {35, true, "nanosleep"},
	163: {25, true, "mremap"},
	164: {117, true, "setresuid"},
	165: {118, true, "getresuid"},
	167: {178, true, "query_module"},
	168: {7, true, "poll"},
	169: {180, true, "nfsservctl"},
	170: {119, true, "setresgid"},
	171: {120, true, "getresgid"},
	172: {157, true, "prctl"},
	173: {15, true, "rt_sigreturn"},
	174: {13, true, "rt_sigaction"},
	175: {14, true, "rt_sigprocmask"},
	176: {127, true, "rt_sigpending"},
	177: {128, true, "rt_sigtimedwait"},
	178: {129, true, "rt_sigqueueinfo"},
	179: {130, true, "rt_sigsuspend"},
	180: {17, true, "pread64"},
	181: {18, true, "pwrite64"},
	182: {94, true, "lchown"},
	183: {79, true, "getcwd"},
	184: {125, true, "capget"},
	185: {126, true, "capset"},
	186: {131, true, "sigaltstack"},
	187: {40, true, "sendfile"},
	188: {181, true, "getpmsg"},
	189: {182, true, "putpmsg"},
	190: {58, true, "vfork"},
	191: {97, true, "ugetrlimit"},
	192: {9, true, "mmap2"},
	193: {76, true, "truncate64"},
	194: {77, true, "ftruncate64"},
	195: {4, true, "stat64"},
	196: {6, true, "lstat64"},
	197: {5, true, "fstat64"},
	198: {92, true, "chown32"},
	199: {102, true, "getuid32"},
	200: {104, true, "getgid32"},
	201: {107, true, "geteuid32"},
	202: {108, true, "getegid32"},
	203: {113, true, "setreuid32"},
	204: {114, true, "setregid32"},
	205: {115, true, "getgroups32"},
	206: {116, true, "setgroups32"},
	207: {93, true, "fchown32"},
	208: {117, true, "setresuid32"},
	209: {118, true, "getresuid32"},
	210: {119, true, "setresgid32"},
	211: {120, true, "getresgid32"},
	212: {94, true, "lchown32"},
	213: {105, true, "setuid32"},
	214: {106, true, "setgid32"},
	215: {122, true, "setfsuid32"},
	216: {123, true, "setfsgid32"},
	217: {155, true, "pivot_root"},
	220: {217, true, "getdents64"},
	221: {186, true, "gettid"},
	222: {200, true, "tkill"},
	223: {188, true, "setxattr"},
	224: {189, true, "lsetxattr"},
	225: {190, true, "fsetxattr"},
	226: {191, true, "getxattr"},
	227: {192, true, "lgetxattr"},
	228: {193, true, "fgetxattr"},
	229: {194, true, "listxattr"},
	230: {195, true, "llistxattr"},
	231: {196, true, "flistxattr"},
	232: {197, true, "removexattr"},
	233: {198, true, "lremovexattr"},
	234: {199, true, "fremovexattr"},
	235: {202, true, "futex"},
	236: {40, true, "sendfile64"},
	237: {27, true, "mincore"},
	238: {28, true, "madvise"},
	239: {72, true, "fcntl64"},
	240: {187, true, "readahead"},
	241: {206, true, "io_setup"},
	242: {207, true, "io_destroy"},
	243: {208, true, "io_getevents"},
	244: {209, true, "io_submit"},
	245: {210, true, "io_cancel"},
	246: {221, true, "fadvise64"},
	247: {231, true, "exit_group"},
	248: {212, true, "lookup_dcookie"},
	249: {213, true, "epoll_create"},
	250: {233, true, "epoll_ctl"},
	251: {232, true, "epoll_wait"},
	252: {216, true, "remap_file_pages"},
	253: {218, true, "set_tid_address"},
	254: {222, true, "timer_create"},
	255: {223, true, "timer_settime"},
	256: {224, true, "timer_gettime"},
	257: {225, true, "timer_getoverrun"},
	258: {226, true, "timer_delete"},
	259: {227, true, "clock_settime"},
	260: {228, true, "clock_gettime"},
	261: {229, true, "clock_getres"},
	262: {230, true, "clock_nanosleep"},
	263: {137, true, "statfs64"},
	264: {138, true, "fstatfs64"},
	265: {234, true, "tgkill"},
	266: {235, true, "utimes"},
	268: {237, true, "mbind"},
	269: {239, true, "get_mempolicy"},
	270: {238, true, "set_mempolicy"},
	271: {240, true, "mq_open"},
	272: {241, true, "mq_unlink"},
	273: {242, true, "mq_timedsend"},
	274: {243, true, "mq_timedreceive"},
	275: {244, true, "mq_notify"},
	276: {245, true, "mq_getsetattr"},
	277: {247, true, "waitid"},
	279: {248, true, "add_key"},
	280: {249, true, "request_key"},
	281: {250, true, "keyctl"},
	282: {251, true, "ioprio_set"},
	283: {252, true, "ioprio_get"},
	284: {253, true, "inotify_init"},
	285: {254, true, "inotify_add_watch"},
	286: {255, true, "inotify_rm_watch"},
	287: {256, true, "migrate_pages"},
	288: {257, true, "openat"},
	289: {258, true, "mkdirat"},
	290: {259, true, "mknodat"},
	291: {260, true, "fchownat"},
	292: {261, true, "futimesat"},
	293: {262, true, "fstatat64"},
	294: {263, true, "unlinkat"},
	295: {264, true, "renameat"},
	296: {265, true, "linkat"},
	297: {266, true, "symlinkat"},
	298: {267, true, "readlinkat"},
	299: {268, true, "fchmodat"},
	300: {269, true, "faccessat"},
	301: {270, true, "pselect6"},
	302: {271, true, "ppoll"},
	303: {272, true, "unshare"},
	304: {273, true, "set_robust_list"},
	305: {274, true, "get_robust_list"},
	306: {275, true, "splice"},
	307: {277, true, "sync_file_range"},
	308: {276, true, "tee"},
	309: {278, true, "vmsplice"},
	310: {279, true, "move_pages"},
	311: {203, true, "sched_setaffinity"},
	312: {204, true, "sched_getaffinity"},
	313: {246, true, "kexec_load"},
	314: {309, true, "getcpu"},
	315: {281, true, "epoll_pwait"},
	316: {280, true, "utimensat"},
	317: {282, true, "signalfd"},
	318: {283, true, "timerfd_create"},
	319: {284, true, "eventfd"},
	320: {285, true, "fallocate"},
	321: {286, true, "timerfd_settime"},
	322: {287, true, "timerfd_gettime"},
	323: {289, true, "signalfd4"},
	324: {290, true, "eventfd2"},
	325: {291, true, "epoll_create1"},
	326: {292, true, "dup3"},
	327: {293, true, "pipe2"},
	328: {294, true, "inotify_init1"},
	329: {295, true, "preadv"},
	330: {296, true, "pwritev"},
	331: {297, true, "rt_tgsigqueueinfo"},
	332: {298, true, "perf_event_open"},
	333: {211, true, "get_thread_area"},
	334: {205, true, "set_thread_area"},
	335: {0, false, "atomic_cmpxchg_32"},
	336: {0, false, "atomic_barrier"},
	337: {300, true, "fanotify_init"},
	338: {301, true, "fanotify_mark"},
	339: {302, true, "prlimit64"},
	340: {303, true, "name_to_handle_at"},
	341: {304, true, "open_by_handle_at"},
	342: {305, true, "clock_adjtime"},
	343: {306, true, "syncfs"},
	344: {308, true, "setns"},
	345: {310, true, "process_vm_readv"},
	346: {311, true, "process_vm_writev"},
	347: {312, true, "kcmp"},
	348: {313, true, "finit_module"},
	349: {314, true, "sched_setattr"},
	350: {315, true, "sched_getattr"},
	351: {316, true, "renameat2"},
	352: {318, true, "getrandom"},
	353: {319, true, "memfd_create"},
	354: {321, true, "bpf"},
	355: {322, true, "execveat"},
	356: {41, true, "socket"},
	357: {53, true, "socketpair"},
	358: {49, true, "bind"},
	359: {42, true, "connect"},
	360: {50, true, "listen"},
	361: {288, true, "accept4"},
	362: {55, true, "getsockopt"},
	363: {54, true, "setsockopt"},
	364: {51, true, "getsockname"},
	365: {52, true, "getpeername"},
	366: {44, true, "sendto"},
	367: {46, true, "sendmsg"},
	368: {45, true, "recvfrom"},
	369: {47, true, "recvmsg"},
	370: {48, true, "shutdown"},
	371: {299, true, "recvmmsg"},
	372: {307, true, "sendmmsg"},
	373: {323, true, "userfaultfd"},
	374: {324, true, "membarrier"},
	375: {325, true, "mlock2"},
	376: {326, true, "copy_file_range"},
	377: {327, true, "preadv2"},
	378: {328, true, "pwritev2"},
	379: {332, true, "statx"},
	380: {317, true, "seccomp"},
	381: {329, true, "pkey_mprotect"},
	382: {330, true, "pkey_alloc"},
	383: {331, true, "pkey_free"},
	384: {334, true, "rseq"},
	393: {64, true, "semget"},
	394: {66, true, "semctl"},
	395: {29, true, "shmget"},
	396: {31, true, "shmctl"},
	397: {30, true, "shmat"},
	398: {67, true, "shmdt"},
	399: {68, true, "msgget"},
	400: {69, true, "msgsnd"},
	401: {70, true, "msgrcv"},
	402: {71, true, "msgctl"},
	// m68k uclibc uses 64-bit time_t throughout; the *_time64 syscalls map
	// onto the same host syscalls the plain names already use.
	403: {228, true, "clock_gettime64"},
	404: {227, true, "clock_settime64"},
	405: {305, true, "clock_adjtime64"},
	406: {229, true, "clock_getres_time64"},
	407: {230, true, "clock_nanosleep_time64"},
	408: {224, true, "timer_gettime64"},
	409: {223, true, "timer_settime64"},
	410: {287, true, "timerfd_gettime64"},
	411: {286, true, "timerfd_settime64"},
	412: {280, true, "utimensat_time64"},
	413: {270, true, "pselect6_time64"},
	414: {271, true, "ppoll_time64"},
	417: {299, true, "recvmmsg_time64"},
	418: {242, true, "mq_timedsend_time64"},
	419: {243, true, "mq_timedreceive_time64"},
	420: {220, true, "semtimedop_time64"},
	421: {128, true, "rt_sigtimedwait_time64"},
	422: {202, true, "futex_time64"},
	423: {148, true, "sched_rr_get_interval_time64"},
	424: {424, true, "pidfd_send_signal"},
	425: {425, true, "io_uring_setup"},
	426: {426, true, "io_uring_enter"},
	427: {427, true, "io_uring_register"},
	428: {428, true, "open_tree"},
	429: {429, true, "move_mount"},
	430: {430, true, "fsopen"},
	431: {431, true, "fsconfig"},
	432: {432, true, "fsmount"},
	433: {433, true, "fspick"},
	434: {434, true, "pidfd_open"},
	435: {435, true, "clone3"},
	436: {436, true, "close_range"},
	437: {437, true, "openat2"},
	438: {438, true, "pidfd_getfd"},
	439: {439, true, "faccessat2"},
	440: {440, true, "process_madvise"},
	441: {441, true, "epoll_pwait2"},
	442: {442, true, "mount_setattr"},
	443: {443, true, "quotactl_fd"},
	444: {444, true, "landlock_create_ruleset"},
	445: {445, true, "landlock_add_rule"},
	446: {446, true, "landlock_restrict_self"},
	448: {448, true, "process_mrelease"},
	449: {449, true, "futex_waitv"},
	450: {450, true, "set_mempolicy_home_node"},
	451: {451, true, "cachestat"},
	452: {452, true, "fchmodat2"},
	453: {453, true, "map_shadow_stack"},
	454: {454, true, "futex_wake"},
	455: {455, true, "futex_wait"},
	456: {456, true, "futex_requeue"},
	457: {457, true, "statmount"},
	458: {458, true, "listmount"},
	459: {459, true, "lsm_get_self_attr"},
	460: {460, true, "lsm_set_self_attr"},
	461: {461, true, "lsm_list_modules"},
	462: {462, true, "mseal"},
	463: {463, true, "setxattrat"},
	464: {464, true, "getxattrat"},
	465: {465, true, "listxattrat"},
	466: {466, true, "removexattrat"},
	467: {467, true, "open_tree_attr"},
}
