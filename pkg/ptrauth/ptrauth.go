// Package ptrauth normalizes pointers that may carry a pointer authentication
// code before they are compared against image ranges.
package ptrauth

import (
	"github.com/blacktop/introspect/pkg/arch"
	"github.com/klauspost/cpuid/v2"
)

// Strip removes the authentication bits from addr. Configurations without
// pointer authentication get addr back unchanged.
func Strip(cfg *arch.Config, addr uint64) uint64 {
	if cfg == nil {
		cfg = arch.Current()
	}
	if !cfg.PtrAuth {
		return addr
	}
	return addr & cfg.AddressMask()
}

// Signed reports whether addr has bits set above the address space of cfg.
func Signed(cfg *arch.Config, addr uint64) bool {
	return Strip(cfg, addr) != addr
}

// Supported reports whether the host CPU implements generic pointer
// authentication.
func Supported() bool {
	return cpuid.CPU.Supports(cpuid.GPA)
}

// HostCPU describes the processor this process runs on.
type HostCPU struct {
	Brand  string
	Vendor string
	PAC    bool
}

// Host reports the running CPU as detected by cpuid.
func Host() HostCPU {
	return HostCPU{
		Brand:  cpuid.CPU.BrandName,
		Vendor: cpuid.CPU.VendorString,
		PAC:    Supported(),
	}
}

// SoftwareOnly reports whether pointers signed for cfg can only be stripped
// in software here: cfg uses pointer authentication but the host CPU does not.
func SoftwareOnly(cfg *arch.Config) bool {
	if cfg == nil {
		cfg = arch.Current()
	}
	return cfg.PtrAuth && !Supported()
}
