// Package objc resolves the class of Objective-C objects from raw memory.
//
// An object is just an address whose first word (the isa) identifies its
// class, either directly or packed together with reference count and flag
// bits. Addresses with the architecture's tag bits set are tagged pointers;
// they carry their payload inline and have no isa word to read.
package objc

import (
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/blacktop/introspect/pkg/arch"
	"github.com/blacktop/introspect/pkg/memory"
)

// Class identifies a runtime class by address.
type Class uint64

func (c Class) String() string {
	return fmt.Sprintf("%#x", uint64(c))
}

// Encoding is the shape of an isa word.
type Encoding uint8

const (
	// Raw isa words are the class address.
	Raw Encoding = iota
	// Packed isa words match the magic value and hold the class under the isa mask.
	Packed
	// Unknown isa words match neither layout and are returned verbatim.
	Unknown
)

func (e Encoding) String() string {
	switch e {
	case Raw:
		return "raw"
	case Packed:
		return "packed"
	default:
		return "unknown"
	}
}

// MaxHierarchyDepth bounds Hierarchy; the runtime keeps class chains acyclic
// but nothing here checks that.
const MaxHierarchyDepth = 1024

// ErrHierarchyTooDeep is returned when a superclass chain does not reach a root.
var ErrHierarchyTooDeep = errors.New("class hierarchy exceeds maximum depth")

// Decode recovers the class address from an isa word.
func Decode(cfg *arch.Config, isa uint64) (Class, Encoding) {
	if isa&^cfg.Isa.Mask == 0 {
		return Class(isa), Raw
	}
	if isa&cfg.Isa.MagicMask == cfg.Isa.MagicValue {
		return Class(isa & cfg.Isa.Mask), Packed
	}
	return Class(isa), Unknown
}

// Runtime is the authority on class metadata.
type Runtime interface {
	// Superclass returns the declared superclass of cls and false when cls
	// is a root class.
	Superclass(cls Class) (Class, bool, error)
}

// Resolver answers class identity questions for objects living in mem.
type Resolver struct {
	mem memory.Reader
	cfg *arch.Config
	rt  Runtime
}

// NewResolver returns a Resolver. A nil cfg selects arch.Current().
//
// rt answers superclass queries. When mem is the current process, pass the
// host runtime (internal/objc.Host) so its bookkeeping is trusted. A nil rt
// reads superclass links straight out of the class structures in mem, which
// is only meant for another process or a snapshot.
func NewResolver(mem memory.Reader, cfg *arch.Config, rt Runtime) *Resolver {
	if cfg == nil {
		cfg = arch.Current()
	}
	if rt == nil {
		rt = &MetadataRuntime{Mem: mem, Arch: cfg}
	}
	return &Resolver{mem: mem, cfg: cfg, rt: rt}
}

// Arch returns the architecture configuration in use.
func (r *Resolver) Arch() *arch.Config {
	return r.cfg
}

// IsTaggedPointer reports whether ptr is a tagged pointer. Nil is not.
func (r *Resolver) IsTaggedPointer(ptr uint64) bool {
	return r.cfg.IsTaggedPointer(ptr)
}

// ClassMask returns the architecture's class mask.
func (r *Resolver) ClassMask() uint64 {
	return r.cfg.ClassMask()
}

// ClassOf returns the class of the object at ptr.
//
// ptr must be a valid, non-tagged object; screen it with IsTaggedPointer
// first. The only error is the memory view failing to supply the isa word.
func (r *Resolver) ClassOf(ptr uint64) (Class, error) {
	cls, _, err := r.ClassOfWithEncoding(ptr)
	return cls, err
}

// ClassOfWithEncoding is ClassOf that also reports how the isa was encoded, so
// strict callers can reject Unknown.
func (r *Resolver) ClassOfWithEncoding(ptr uint64) (Class, Encoding, error) {
	isa, err := memory.ReadWord(r.mem, ptr, r.cfg.PointerSize)
	if err != nil {
		return 0, Unknown, fmt.Errorf("failed to read isa of object %#x: %w", ptr, err)
	}
	cls, enc := Decode(r.cfg, isa)
	if enc == Unknown {
		log.WithFields(log.Fields{
			"object": fmt.Sprintf("%#x", ptr),
			"isa":    fmt.Sprintf("%#x", isa),
		}).Debug("Unrecognized isa encoding")
	}
	return cls, enc, nil
}

// SuperclassOf returns the superclass of cls, or false for a root class.
func (r *Resolver) SuperclassOf(cls Class) (Class, bool, error) {
	return r.rt.Superclass(cls)
}

// Hierarchy returns cls followed by each of its superclasses up to the root.
func (r *Resolver) Hierarchy(cls Class) ([]Class, error) {
	chain := []Class{cls}
	for len(chain) <= MaxHierarchyDepth {
		super, ok, err := r.rt.Superclass(chain[len(chain)-1])
		if err != nil {
			return chain, err
		}
		if !ok {
			return chain, nil
		}
		chain = append(chain, super)
	}
	return chain, fmt.Errorf("%w (%d) starting at %s", ErrHierarchyTooDeep, MaxHierarchyDepth, cls)
}

// IsKindOf reports whether cls is target or inherits from it.
func (r *Resolver) IsKindOf(cls, target Class) (bool, error) {
	chain, err := r.Hierarchy(cls)
	if err != nil {
		return false, err
	}
	for _, c := range chain {
		if c == target {
			return true, nil
		}
	}
	return false, nil
}
