package image

import (
	"fmt"
	"iter"

	"github.com/blacktop/go-macho/types"
	"github.com/blacktop/introspect/pkg/memory"
)

const (
	nlist32Size = 12
	nlist64Size = 16

	noSect = 0 // NO_SECT

	descWeakRef = 0x0040 // N_WEAK_REF
	descWeakDef = 0x0080 // N_WEAK_DEF
)

// SymbolType is the N_TYPE field of a symbol.
type SymbolType uint8

const (
	Undefined        SymbolType = SymbolType(types.N_UNDF)
	Absolute         SymbolType = SymbolType(types.N_ABS)
	DefinedInSection SymbolType = SymbolType(types.N_SECT)
	Prebound         SymbolType = SymbolType(types.N_PBUD)
	Indirect         SymbolType = SymbolType(types.N_INDR)
)

func (t SymbolType) String() string {
	switch t {
	case Undefined:
		return "undefined"
	case Absolute:
		return "absolute"
	case DefinedInSection:
		return "section"
	case Prebound:
		return "prebound"
	case Indirect:
		return "indirect"
	}
	return fmt.Sprintf("SymbolType(%#x)", uint8(t))
}

// Symbol is one symbol table record resolved against the image's string table
// and address base.
type Symbol struct {
	Name string
	// Address is Value plus the image's slide.
	Address uint64
	// Value is the link-time n_value.
	Value uint64
	Type  types.NType
	Sect  uint8
	Desc  uint16
}

// Kind returns the N_TYPE of the symbol and false when it is not one of the
// known kinds (stabs, for one).
func (s Symbol) Kind() (SymbolType, bool) {
	switch k := SymbolType(s.Type & types.N_TYPE); k {
	case Undefined, Absolute, DefinedInSection, Prebound, Indirect:
		return k, !s.Type.IsDebugSym()
	default:
		return k, false
	}
}

func (s Symbol) IsExternal() bool        { return s.Type.IsExternalSym() }
func (s Symbol) IsPrivateExternal() bool { return s.Type.IsPrivateExternalSym() }
func (s Symbol) IsWeakReferenced() bool  { return s.Desc&descWeakRef != 0 }
func (s Symbol) IsWeakDefined() bool     { return s.Desc&descWeakDef != 0 }

// IsExternallyVisible reports a symbol that is neither weak referenced nor
// weak defined.
func (s Symbol) IsExternallyVisible() bool {
	return s.Desc&(descWeakRef|descWeakDef) == 0
}

// IsDefined reports a named symbol with a section and a non-zero value.
func (s Symbol) IsDefined() bool {
	if s.Sect == noSect || s.Value == 0 || s.Name == "" {
		return false
	}
	_, ok := s.Kind()
	return ok
}

func (s Symbol) String() string {
	return fmt.Sprintf("%#016x: %s", s.Address, s.Name)
}

// SymbolIterator is a single-pass, forward-only cursor over an image's
// symbol table. It is not safe for concurrent use; each goroutine that needs
// to walk the table should get its own from Image.Symbols.
type SymbolIterator struct {
	mem     memory.Reader
	is64    bool
	symbols uint64 // runtime address of the nlist array
	strings uint64 // runtime address of the string table
	strsize uint32
	slide   int64
	count   uint32
	next    uint32
	err     error
}

// Symbols starts a walk of the image's symbol table. An image without
// LC_SYMTAB or __LINKEDIT yields an empty walk.
func (i *Image) Symbols() *SymbolIterator {
	it := &SymbolIterator{
		mem:   i.mem,
		is64:  i.Arch.Is64(),
		slide: i.Slide,
	}
	if !i.HasSymbolTable() {
		return it
	}
	// __LINKEDIT is mapped at its slid vmaddr; the symtab offsets are file offsets into it.
	base := uint64(int64(i.linkedit.Addr)+i.Slide) - i.linkedit.Offset
	it.symbols = base + uint64(i.symtab.Symoff)
	it.strings = base + uint64(i.symtab.Stroff)
	it.strsize = i.symtab.Strsize
	it.count = i.symtab.Nsyms
	return it
}

// Len is the total number of records in the table.
func (it *SymbolIterator) Len() int {
	return int(it.count)
}

// Remaining is the number of records not yet returned.
func (it *SymbolIterator) Remaining() int {
	return int(it.count - it.next)
}

// Err returns the read error that ended the walk early, if any.
func (it *SymbolIterator) Err() error {
	return it.err
}

// Next returns the next symbol. Once it returns false every later call does
// too.
func (it *SymbolIterator) Next() (Symbol, bool) {
	if it.next >= it.count {
		return Symbol{}, false
	}
	sym, err := it.read(it.next)
	if err != nil {
		it.err = err
		it.next = it.count
		return Symbol{}, false
	}
	it.next++
	return sym, true
}

func (it *SymbolIterator) read(index uint32) (Symbol, error) {
	var (
		sym  Symbol
		strx uint32
	)
	if it.is64 {
		var nl types.Nlist64
		if err := memory.ReadStruct(it.mem, it.symbols+uint64(index)*nlist64Size, &nl); err != nil {
			return sym, fmt.Errorf("failed to read symbol %d: %w", index, err)
		}
		strx = nl.Name
		sym = Symbol{
			Address: uint64(int64(nl.Value) + it.slide),
			Value:   nl.Value,
			Type:    nl.Type,
			Sect:    nl.Sect,
			Desc:    uint16(nl.Desc),
		}
	} else {
		var nl types.Nlist32
		if err := memory.ReadStruct(it.mem, it.symbols+uint64(index)*nlist32Size, &nl); err != nil {
			return sym, fmt.Errorf("failed to read symbol %d: %w", index, err)
		}
		strx = nl.Name
		sym = Symbol{
			Address: uint64(uint32(int64(nl.Value) + it.slide)),
			Value:   uint64(nl.Value),
			Type:    nl.Type,
			Sect:    nl.Sect,
			Desc:    uint16(nl.Desc),
		}
	}

	// strx 0 is the conventional empty name.
	if strx == 0 || strx >= it.strsize {
		return sym, nil
	}
	name, err := memory.ReadCStringN(it.mem, it.strings+uint64(strx), int(it.strsize-strx))
	if err != nil {
		return sym, fmt.Errorf("failed to read name of symbol %d (strx %#x): %w", index, strx, err)
	}
	sym.Name = name
	return sym, nil
}

// All walks a fresh cursor over the whole table. Each call replays the table
// in the same link-time order.
func (i *Image) All() iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		it := i.Symbols()
		for {
			sym, ok := it.Next()
			if !ok || !yield(sym) {
				return
			}
		}
	}
}

// DefinedOnly drops undefined, unnamed, zero valued and debug symbols.
func DefinedOnly(seq iter.Seq[Symbol]) iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		for sym := range seq {
			if sym.IsDefined() && !yield(sym) {
				return
			}
		}
	}
}

// Lookup returns the first defined symbol named name. Imports of that name
// are skipped: their value is not an address in this image.
func (i *Image) Lookup(name string) (Symbol, bool) {
	for sym := range DefinedOnly(i.All()) {
		if sym.Name == name {
			return sym, true
		}
	}
	return Symbol{}, false
}
