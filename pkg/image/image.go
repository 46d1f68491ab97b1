// Package image walks the symbol tables of Mach-O images that are already
// mapped in memory.
//
// Nothing here reads files. The header address handed to Parse must point at
// an image mapped by a loader (dyld, an emulator, or Map); every symbol name
// and address read out of it borrows that mapping.
package image

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/blacktop/go-macho/types"
	"github.com/blacktop/introspect/pkg/arch"
	"github.com/blacktop/introspect/pkg/memory"
)

const (
	segPageZero = "__PAGEZERO"
	segText     = "__TEXT"
	segLinkEdit = "__LINKEDIT"

	cpuSubtypeMask   = 0x00ffffff
	cpuSubtypeArm64e = 2

	loadCmdHeaderSize = 8
	maxLoadCommands   = 0x10000
)

// ErrUnsupported is returned by Loaded on hosts without dyld.
var ErrUnsupported = errors.New("enumerating loaded images requires darwin and cgo")

// FormatError reports a malformed in-memory image.
type FormatError struct {
	Addr uint64
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed image at %#x: %s", e.Addr, e.Msg)
}

// Segment is a segment load command with its link-time addresses.
type Segment struct {
	Name     string
	Addr     uint64
	Memsz    uint64
	Offset   uint64
	Filesz   uint64
	Maxprot  types.VmProtection
	Prot     types.VmProtection
	Sections uint32
}

// Image is a loaded Mach-O image.
type Image struct {
	Name   string
	Header uint64
	// Slide is the address base: runtime address minus link-time address.
	Slide    int64
	Arch     *arch.Config
	Type     types.HeaderFileType
	Flags    types.HeaderFlag
	Segments []Segment

	mem      memory.Reader
	symtab   *types.SymtabCmd
	linkedit *Segment
}

type options struct {
	arch     *arch.Config
	slide    int64
	hasSlide bool
	name     string
}

// Option configures Parse.
type Option func(*options)

// WithArch forces the architecture configuration instead of deriving it from
// the header's CPU type.
func WithArch(cfg *arch.Config) Option {
	return func(o *options) { o.arch = cfg }
}

// WithSlide sets the address base, as reported by the loader. Without it the
// base is the header address minus the __TEXT link address.
func WithSlide(slide int64) Option {
	return func(o *options) {
		o.slide = slide
		o.hasSlide = true
	}
}

// WithName names the image, typically with its install path.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Parse reads the mach header and load commands of the image at header.
func Parse(mem memory.Reader, header uint64, opts ...Option) (*Image, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var raw [types.FileHeaderSize32]byte
	if err := memory.ReadFull(mem, header, raw[:]); err != nil {
		return nil, fmt.Errorf("failed to read mach header: %w", err)
	}
	bo := memory.ByteOrder
	hdr := types.FileHeader{
		Magic:        types.Magic(bo.Uint32(raw[0:])),
		CPU:          types.CPU(bo.Uint32(raw[4:])),
		SubCPU:       types.CPUSubtype(bo.Uint32(raw[8:])),
		Type:         types.HeaderFileType(bo.Uint32(raw[12:])),
		NCommands:    bo.Uint32(raw[16:]),
		SizeCommands: bo.Uint32(raw[20:]),
		Flags:        types.HeaderFlag(bo.Uint32(raw[24:])),
	}

	var hdrSize uint64
	switch hdr.Magic {
	case types.Magic64:
		hdrSize = types.FileHeaderSize64
	case types.Magic32:
		hdrSize = types.FileHeaderSize32
	default:
		return nil, &FormatError{header, fmt.Sprintf("invalid magic %#x", uint32(hdr.Magic))}
	}

	cfg := o.arch
	if cfg == nil {
		var err error
		if cfg, err = archForCPU(hdr.CPU, hdr.SubCPU); err != nil {
			return nil, &FormatError{header, err.Error()}
		}
	}
	if cfg.Is64() != (hdr.Magic == types.Magic64) {
		return nil, &FormatError{header, fmt.Sprintf("%s header does not match %s record layout", hdr.Magic, cfg)}
	}
	if hdr.NCommands > maxLoadCommands {
		return nil, &FormatError{header, fmt.Sprintf("too many load commands (%d)", hdr.NCommands)}
	}

	img := &Image{
		Name:   o.name,
		Header: header,
		Arch:   cfg,
		Type:   hdr.Type,
		Flags:  hdr.Flags,
		mem:    mem,
	}

	var text *Segment
	cmdStart := header + hdrSize
	cmdEnd := cmdStart + uint64(hdr.SizeCommands)
	addr := cmdStart
	for i := uint32(0); i < hdr.NCommands; i++ {
		var lc [loadCmdHeaderSize]byte
		if addr+loadCmdHeaderSize > cmdEnd {
			return nil, &FormatError{header, fmt.Sprintf("load command %d overruns sizeofcmds", i)}
		}
		if err := memory.ReadFull(mem, addr, lc[:]); err != nil {
			return nil, fmt.Errorf("failed to read load command %d: %w", i, err)
		}
		cmd := types.LoadCmd(bo.Uint32(lc[0:]))
		size := uint64(bo.Uint32(lc[4:]))
		if size < loadCmdHeaderSize || addr+size > cmdEnd {
			return nil, &FormatError{header, fmt.Sprintf("load command %d (%s) has invalid size %#x", i, cmd, size)}
		}

		switch cmd {
		case types.LC_SEGMENT_64:
			var seg types.Segment64
			if err := memory.ReadStruct(mem, addr, &seg); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", cmd, err)
			}
			img.Segments = append(img.Segments, Segment{
				Name:     cstring(seg.Name[:]),
				Addr:     seg.Addr,
				Memsz:    seg.Memsz,
				Offset:   seg.Offset,
				Filesz:   seg.Filesz,
				Maxprot:  seg.Maxprot,
				Prot:     seg.Prot,
				Sections: seg.Nsect,
			})
		case types.LC_SEGMENT:
			var seg types.Segment32
			if err := memory.ReadStruct(mem, addr, &seg); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", cmd, err)
			}
			img.Segments = append(img.Segments, Segment{
				Name:     cstring(seg.Name[:]),
				Addr:     uint64(seg.Addr),
				Memsz:    uint64(seg.Memsz),
				Offset:   uint64(seg.Offset),
				Filesz:   uint64(seg.Filesz),
				Maxprot:  seg.Maxprot,
				Prot:     seg.Prot,
				Sections: seg.Nsect,
			})
		case types.LC_SYMTAB:
			var st types.SymtabCmd
			if err := memory.ReadStruct(mem, addr, &st); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", cmd, err)
			}
			img.symtab = &st
		}
		addr += size
	}

	for i := range img.Segments {
		switch img.Segments[i].Name {
		case segText:
			text = &img.Segments[i]
		case segLinkEdit:
			img.linkedit = &img.Segments[i]
		}
	}

	switch {
	case o.hasSlide:
		img.Slide = o.slide
	case text != nil:
		img.Slide = int64(header - text.Addr)
	default:
		img.Slide = int64(header)
	}

	log.WithFields(log.Fields{
		"header":   fmt.Sprintf("%#x", header),
		"slide":    fmt.Sprintf("%#x", img.Slide),
		"arch":     cfg.Name,
		"segments": len(img.Segments),
		"symtab":   img.symtab != nil,
	}).Debug("Parsed image")

	return img, nil
}

func archForCPU(cpu types.CPU, sub types.CPUSubtype) (*arch.Config, error) {
	switch cpu {
	case types.CPUAmd64:
		return arch.X86_64, nil
	case types.CPUArm64:
		if uint32(sub)&cpuSubtypeMask == cpuSubtypeArm64e {
			return arch.ARM64e, nil
		}
		return arch.ARM64, nil
	case types.CPUI386:
		return arch.I386, nil
	case types.CPUArm:
		return arch.ARMv7, nil
	}
	return nil, fmt.Errorf("unsupported cpu type %#x", uint32(cpu))
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// Segment returns the named segment.
func (i *Image) Segment(name string) *Segment {
	for idx := range i.Segments {
		if i.Segments[idx].Name == name {
			return &i.Segments[idx]
		}
	}
	return nil
}

// Start returns the runtime address of seg.
func (i *Image) Start(seg *Segment) uint64 {
	return uint64(int64(seg.Addr) + i.Slide)
}

// Contains reports whether addr lies in one of the image's mapped segments.
func (i *Image) Contains(addr uint64) bool {
	for idx := range i.Segments {
		seg := &i.Segments[idx]
		if seg.Name == segPageZero || seg.Memsz == 0 {
			continue
		}
		start := i.Start(seg)
		if start <= addr && addr < start+seg.Memsz {
			return true
		}
	}
	return false
}

// Size is the number of bytes the image's segments span in memory.
func (i *Image) Size() uint64 {
	var (
		lo, hi uint64
		seen   bool
	)
	for idx := range i.Segments {
		seg := &i.Segments[idx]
		if seg.Name == segPageZero || seg.Memsz == 0 {
			continue
		}
		if !seen || seg.Addr < lo {
			lo = seg.Addr
			seen = true
		}
		if end := seg.Addr + seg.Memsz; end > hi {
			hi = end
		}
	}
	return hi - lo
}

// HasSymbolTable reports whether the image carries an LC_SYMTAB that can be
// walked.
func (i *Image) HasSymbolTable() bool {
	return i.symtab != nil && i.linkedit != nil
}

// NumSymbols is the nsyms field of LC_SYMTAB, or zero.
func (i *Image) NumSymbols() int {
	if !i.HasSymbolTable() {
		return 0
	}
	return int(i.symtab.Nsyms)
}

func (i *Image) String() string {
	if i.Name != "" {
		return fmt.Sprintf("%s (%#x)", i.Name, i.Header)
	}
	return fmt.Sprintf("%#x", i.Header)
}
