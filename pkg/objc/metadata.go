package objc

import (
	"fmt"

	"github.com/blacktop/introspect/pkg/arch"
	"github.com/blacktop/introspect/pkg/memory"
)

// objc_class layout, in pointer sized words.
const (
	classIsaWord = iota
	classSuperclassWord
	classCacheWord
	classVtableWord
	classDataWord
)

// MetadataRuntime reads superclass links from the objc_class structures the
// runtime itself maintains:
//
//	struct objc_class {
//	    Class isa;
//	    Class superclass;
//	    cache_t cache;
//	    class_data_bits_t bits;
//	};
//
// A nil superclass marks a root class.
type MetadataRuntime struct {
	Mem  memory.Reader
	Arch *arch.Config
}

// Superclass implements Runtime.
func (m *MetadataRuntime) Superclass(cls Class) (Class, bool, error) {
	if cls == 0 {
		return 0, false, fmt.Errorf("superclass of nil class")
	}
	addr := uint64(cls) + classSuperclassWord*uint64(m.Arch.PointerSize)
	super, err := memory.ReadWord(m.Mem, addr, m.Arch.PointerSize)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read superclass of %s: %w", cls, err)
	}
	if super == 0 {
		return 0, false, nil
	}
	return Class(super), true, nil
}

// StaticRuntime is a fixed class-to-superclass table. Classes missing from the
// table are roots.
type StaticRuntime map[Class]Class

// Superclass implements Runtime.
func (s StaticRuntime) Superclass(cls Class) (Class, bool, error) {
	super, ok := s[cls]
	if !ok || super == 0 {
		return 0, false, nil
	}
	return super, true, nil
}
