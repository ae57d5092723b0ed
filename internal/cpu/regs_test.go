package cpu

import "testing"

func TestSetDataPreservesUpperBits(t *testing.T) {
	var r Registers
	r.D[0] = 0xaabbccdd
	r.SetData(0, Byte, 0x11)
	if r.D[0] != 0xaabbcc11 {
		t.Fatalf("D0 = %#x, want %#x", r.D[0], 0xaabbcc11)
	}
	r.SetData(0, Word, 0x2233)
	if r.D[0] != 0xaabb2233 {
		t.Fatalf("D0 = %#x, want %#x", r.D[0], 0xaabb2233)
	}
}

func TestSetAddrSizedSignExtends(t *testing.T) {
	var r Registers
	r.SetAddrSized(1, Word, 0xffff)
	if r.A[1] != 0xffffffff {
		t.Fatalf("A1 = %#x, want sign-extended 0xffffffff", r.A[1])
	}
	r.SetAddrSized(2, Word, 0x7fff)
	if r.A[2] != 0x00007fff {
		t.Fatalf("A2 = %#x, want 0x7fff", r.A[2])
	}
}

func TestSignExtendAndTruncate(t *testing.T) {
	if got := SignExtend(0x80, Byte); got != 0xffffff80 {
		t.Fatalf("SignExtend(0x80, Byte) = %#x, want 0xffffff80", got)
	}
	if got := SignExtend(0x7f, Byte); got != 0x7f {
		t.Fatalf("SignExtend(0x7f, Byte) = %#x, want 0x7f", got)
	}
	if got := Truncate(0x1234abcd, Word); got != 0xabcd {
		t.Fatalf("Truncate(.., Word) = %#x, want 0xabcd", got)
	}
}

func TestFlagsApplyLeavesXUntouched(t *testing.T) {
	var sr SR
	sr.SetX(true)
	f := Flags{N: true, Z: false, V: true, C: true}
	f.Apply(&sr)
	if !sr.X() {
		t.Fatal("Apply must not clear X")
	}
	if !sr.N() || sr.Z() || !sr.V() || !sr.C() {
		t.Fatalf("sr = %#x, flags not applied as expected", sr)
	}
}
