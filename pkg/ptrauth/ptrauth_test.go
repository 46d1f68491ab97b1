package ptrauth

import (
	"runtime"
	"testing"

	"github.com/blacktop/introspect/pkg/arch"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  *arch.Config
		addr uint64
		want uint64
	}{
		{"arm64e signed", arch.ARM64e, 0x8a1b000194c3d4e8, 0x0000000194c3d4e8},
		{"arm64e clean", arch.ARM64e, 0x0000000194c3d4e8, 0x0000000194c3d4e8},
		{"arm64 is untouched", arch.ARM64, 0x8a1b000194c3d4e8, 0x8a1b000194c3d4e8},
		{"x86_64 is untouched", arch.X86_64, 0x00007ff812345670, 0x00007ff812345670},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.cfg, tt.addr); got != tt.want {
				t.Errorf("Strip(%#x) = %#x, want %#x", tt.addr, got, tt.want)
			}
			if got := Strip(tt.cfg, Strip(tt.cfg, tt.addr)); got != tt.want {
				t.Errorf("Strip is not idempotent: %#x", got)
			}
		})
	}

	if !Signed(arch.ARM64e, 0x8a1b000194c3d4e8) {
		t.Error("Signed() = false for a pointer with a PAC")
	}
	if Signed(arch.ARM64, 0x8a1b000194c3d4e8) {
		t.Error("Signed() = true on a configuration without pointer authentication")
	}
}

func TestHost(t *testing.T) {
	host := Host()
	if host.PAC != Supported() {
		t.Fatalf("Host().PAC = %v, Supported() = %v", host.PAC, Supported())
	}
	if runtime.GOARCH == "amd64" && host.PAC {
		t.Fatal("amd64 host reports pointer authentication")
	}
	t.Logf("host %q (%s) pac=%v", host.Brand, host.Vendor, host.PAC)
}

func TestSoftwareOnly(t *testing.T) {
	if SoftwareOnly(arch.ARM64) || SoftwareOnly(arch.X86_64) {
		t.Fatal("SoftwareOnly() = true for a configuration without pointer authentication")
	}
	if got, want := SoftwareOnly(arch.ARM64e), !Supported(); got != want {
		t.Fatalf("SoftwareOnly(arm64e) = %v, want %v", got, want)
	}
}
