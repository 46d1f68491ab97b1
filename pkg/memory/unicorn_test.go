//go:build unicorn

package memory

import (
	"testing"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"
)

func TestUnicornReadMemory(t *testing.T) {
	mu, err := uc.NewUnicorn(uc.ARCH_ARM64, uc.MODE_ARM)
	if err != nil {
		t.Fatalf("failed to create unicorn: %v", err)
	}
	defer mu.Close()

	if err := mu.MemMap(0x10000, 0x1000); err != nil {
		t.Fatal(err)
	}
	if err := mu.MemWrite(0x10010, []byte{0x69, 0x1d, 0x0c, 0x00, 0x01, 0x80, 0x1d, 0x00}); err != nil {
		t.Fatal(err)
	}

	got, err := ReadWord(Unicorn{MU: mu}, 0x10010, 8)
	if err != nil {
		t.Fatalf("ReadWord failed: %v", err)
	}
	if want := uint64(0x001d8001000c1d69); got != want {
		t.Fatalf("ReadWord = %#x, want %#x", got, want)
	}

	if _, err := ReadWord(Unicorn{MU: mu}, 0x20000, 8); err == nil {
		t.Fatal("expected an error reading unmapped guest memory")
	}
}
