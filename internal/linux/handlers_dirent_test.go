package linux

import (
	"encoding/binary"
	"testing"
)

// buildHostDirentRecord assembles one native struct linux_dirent64 record.
func buildHostDirentRecord(ino uint64, off int64, typ uint8, name string) []byte {
	nameBytes := append([]byte(name), 0)
	reclen := alignUp8(19 + len(nameBytes))
	rec := make([]byte, reclen)
	binary.LittleEndian.PutUint64(rec[0:8], ino)
	binary.LittleEndian.PutUint64(rec[8:16], uint64(off))
	binary.LittleEndian.PutUint16(rec[16:18], uint16(reclen))
	rec[18] = typ
	copy(rec[19:], nameBytes)
	return rec
}

func TestParseHostDirents(t *testing.T) {
	var buf []byte
	buf = append(buf, buildHostDirentRecord(1, 8, 4, ".")...)
	buf = append(buf, buildHostDirentRecord(2, 16, 4, "..")...)
	buf = append(buf, buildHostDirentRecord(42, 24, 8, "hello.txt")...)

	entries := parseHostDirents(buf)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].name != "." || entries[0].ino != 1 {
		t.Fatalf("entries[0] = %+v", entries[0])
	}
	if entries[2].name != "hello.txt" || entries[2].ino != 42 || entries[2].typ != 8 {
		t.Fatalf("entries[2] = %+v", entries[2])
	}
}

func TestAlignHelpers(t *testing.T) {
	cases := []struct{ in, want8, want2 int }{
		{0, 0, 0}, {1, 8, 2}, {7, 8, 8}, {8, 8, 8}, {9, 16, 10},
	}
	for _, c := range cases {
		if got := alignUp8(c.in); got != c.want8 {
			t.Fatalf("alignUp8(%d) = %d, want %d", c.in, got, c.want8)
		}
		if got := alignUp2(c.in); got != c.want2 {
			t.Fatalf("alignUp2(%d) = %d, want %d", c.in, got, c.want2)
		}
	}
}
