package linux

import "golang.org/x/sys/unix"

// errnoToGuest turns a host syscall error into the negative errno value the
// guest expects in D0. Plain nil becomes 0.
func errnoToGuest(err error) int64 {
	if err == nil {
		return 0
	}
	if errno, ok := err.(unix.Errno); ok {
		return -int64(errno)
	}
	return -int64(unix.EIO)
}
