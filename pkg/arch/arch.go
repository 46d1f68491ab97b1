// Package arch holds the per-architecture constants used to decode Objective-C
// object headers and to pick the Mach-O symbol record layout.
package arch

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/apex/log"
	"github.com/blacktop/go-macho/types"
)

// IsaEncoding describes how the first word of a non-tagged object is packed.
type IsaEncoding struct {
	Mask       uint64 // ISA_MASK
	MagicMask  uint64 // ISA_MAGIC_MASK
	MagicValue uint64 // ISA_MAGIC_VALUE
}

// Config is the read-only architecture configuration. Never mutate a Config
// after it has been handed out; use one of the presets or New.
type Config struct {
	Name         string
	CPU          types.CPU
	PointerSize  int
	TaggedMask   uint64
	Isa          IsaEncoding
	VMMaxAddress uint64
	PtrAuth      bool

	classMask uint64
}

// New builds a Config and derives its class mask.
func New(name string, cpu types.CPU, ptrSize int, tagged uint64, isa IsaEncoding, vmMax uint64, ptrauth bool) *Config {
	c := &Config{
		Name:         name,
		CPU:          cpu,
		PointerSize:  ptrSize,
		TaggedMask:   tagged,
		Isa:          isa,
		VMMaxAddress: vmMax,
		PtrAuth:      ptrauth,
	}
	c.classMask = c.Isa.Mask & CoveringMask(c.VMMaxAddress-1)
	return c
}

// Is64 reports whether the 64-bit symbol record layout applies.
func (c *Config) Is64() bool {
	return c.PointerSize == 8
}

// ClassMask returns ISA_MASK clipped to the smallest all-ones mask covering the
// usable address space. It only depends on construction-time constants.
func (c *Config) ClassMask() uint64 {
	return c.classMask
}

// AddressMask is the covering mask of the usable address space.
func (c *Config) AddressMask() uint64 {
	return CoveringMask(c.VMMaxAddress - 1)
}

// IsTaggedPointer reports whether addr is an inline-encoded value rather than a
// real object pointer. The zero address is never tagged.
func (c *Config) IsTaggedPointer(addr uint64) bool {
	if c.TaggedMask == 0 {
		return false
	}
	return addr&c.TaggedMask == c.TaggedMask
}

func (c *Config) String() string {
	return c.Name
}

// CoveringMask returns the smallest 2^k-1 mask m such that n&m == n.
func CoveringMask(n uint64) uint64 {
	var mask uint64
	for mask != ^uint64(0) {
		mask = mask<<1 | 1
		if n&mask == n {
			break
		}
	}
	return mask
}

const (
	tagMaskLSB = uint64(1)
	tagMaskMSB = uint64(1) << 63
)

var (
	// X86_64 is the Intel macOS runtime.
	X86_64 = New("x86_64", types.CPUAmd64, 8, tagMaskLSB, IsaEncoding{
		Mask:       0x00007ffffffffff8,
		MagicMask:  0x001f800000000001,
		MagicValue: 0x001d800000000001,
	}, 0x00007ffffffff000, false)
	// ARM64 is arm64 without pointer authentication.
	ARM64 = New("arm64", types.CPUArm64, 8, tagMaskMSB, IsaEncoding{
		Mask:       0x0000000ffffffff8,
		MagicMask:  0x000003f000000001,
		MagicValue: 0x000001a000000001,
	}, 0x00007ffffffffff8, false)
	// ARM64e is arm64 with pointer authentication.
	ARM64e = New("arm64e", types.CPUArm64, 8, tagMaskMSB, IsaEncoding{
		Mask:       0x007ffffffffffff8,
		MagicMask:  0x0000000000000001,
		MagicValue: 0x0000000000000001,
	}, 0x00007ffffffffff8, true)
	// ARM64Simulator uses the arm64e isa layout without signed pointers.
	ARM64Simulator = New("arm64-sim", types.CPUArm64, 8, tagMaskMSB, IsaEncoding{
		Mask:       0x007ffffffffffff8,
		MagicMask:  0x0000000000000001,
		MagicValue: 0x0000000000000001,
	}, 0x00007ffffffffff8, false)
	// ExclaveKit is the exclave runtime.
	ExclaveKit = New("exclavekit", types.CPUArm64, 8, tagMaskMSB, IsaEncoding{
		Mask:       0xfffffffffffffff8,
		MagicMask:  0x0000000000000001,
		MagicValue: 0x0000000000000001,
	}, 0x0000001ffffffff8, false)
	// I386 has raw isa pointers and no tagged pointers.
	I386 = New("i386", types.CPUI386, 4, 0, IsaEncoding{
		Mask: 0xffffffff,
	}, 0xfffff000, false)
	// ARMv7 has raw isa pointers and no tagged pointers.
	ARMv7 = New("armv7", types.CPUArm, 4, 0, IsaEncoding{
		Mask: 0xffffffff,
	}, 0xfffff000, false)
)

// All returns every preset.
func All() []*Config {
	return []*Config{X86_64, ARM64, ARM64e, ARM64Simulator, ExclaveKit, I386, ARMv7}
}

// Names returns the preset names, in the order of All.
func Names() []string {
	var names []string
	for _, c := range All() {
		names = append(names, c.Name)
	}
	return names
}

// Lookup returns the preset with the given name.
func Lookup(name string) (*Config, error) {
	switch strings.ToLower(name) {
	case "amd64", "x86-64":
		name = "x86_64"
	case "aarch64":
		name = "arm64"
	case "386":
		name = "i386"
	case "arm":
		name = "armv7"
	}
	for _, c := range All() {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown architecture %q (expected one of %s)", name, strings.Join(Names(), ", "))
}

// EnvOverride is consulted by Current before falling back to GOARCH.
const EnvOverride = "INTROSPECT_ARCH"

var (
	current     *Config
	currentOnce sync.Once
)

// Current returns the configuration for the running process. It is selected
// once, from $INTROSPECT_ARCH if set, otherwise from GOARCH.
func Current() *Config {
	currentOnce.Do(func() {
		current = detect(os.Getenv(EnvOverride), runtime.GOARCH)
		log.WithField("arch", current.Name).Debug("Selected architecture configuration")
	})
	return current
}

func detect(override, goarch string) *Config {
	if override != "" {
		if c, err := Lookup(override); err == nil {
			return c
		}
		log.WithField("arch", override).Warn("Ignoring unknown architecture override")
	}
	switch goarch {
	case "arm64":
		// Go only ever builds the unsigned arm64 slice.
		return ARM64
	case "386":
		return I386
	case "arm":
		return ARMv7
	default:
		return X86_64
	}
}
