package image

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/go-macho"
	"github.com/blacktop/introspect/pkg/arch"
	"github.com/blacktop/introspect/pkg/memory"
)

// MapConfig configures Map.
type MapConfig struct {
	// LoadAddress is where the __TEXT segment (and so the mach header) is
	// placed. Zero keeps the link address.
	LoadAddress uint64
	// Arch selects a slice of a universal binary. Empty picks the last one.
	Arch *arch.Config
}

// Mapped is a Mach-O file laid out in a snapshot the way a loader would.
type Mapped struct {
	Snapshot *memory.Snapshot
	Header   uint64
	Slide    int64
	Arch     *arch.Config
}

// Map loads the segments of the Mach-O at path into a fresh snapshot so the
// in-memory walker can be pointed at an image that is not loaded here.
func Map(path string, conf *MapConfig) (*Mapped, error) {
	if conf == nil {
		conf = &MapConfig{}
	}

	var m *macho.File
	fat, err := macho.OpenFat(filepath.Clean(path))
	if err == nil {
		defer fat.Close()
		m = fat.Arches[len(fat.Arches)-1].File
		if conf.Arch != nil {
			m = nil
			for _, fa := range fat.Arches {
				if c, err := archForCPU(fa.CPU, fa.SubCPU); err == nil && c == conf.Arch {
					m = fa.File
					break
				}
			}
			if m == nil {
				return nil, fmt.Errorf("universal binary %s has no %s slice", path, conf.Arch)
			}
		}
	} else if errors.Is(err, macho.ErrNotFat) {
		m, err = macho.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to open macho file: %v", err)
		}
		defer m.Close()
	} else {
		return nil, fmt.Errorf("failed to open universal macho file: %v", err)
	}

	cfg, err := archForCPU(m.CPU, m.SubCPU)
	if err != nil {
		return nil, err
	}

	text := m.Segment("__TEXT")
	if text == nil {
		return nil, fmt.Errorf("%s has no __TEXT segment", path)
	}
	loadAddr := conf.LoadAddress
	if loadAddr == 0 {
		loadAddr = text.Addr
	}
	slide := int64(loadAddr - text.Addr)

	snap := memory.NewSnapshot()
	for _, seg := range m.Segments() {
		if seg.Name == segPageZero || seg.Memsz == 0 {
			continue
		}
		buf := make([]byte, seg.Memsz)
		if seg.Filesz > 0 {
			data, err := seg.Data()
			if err != nil {
				return nil, fmt.Errorf("failed to read segment %s: %v", seg.Name, err)
			}
			copy(buf, data)
		}
		if err := snap.Map(uint64(int64(seg.Addr)+slide), buf, seg.Name); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"path":  path,
		"arch":  cfg.Name,
		"load":  fmt.Sprintf("%#x", loadAddr),
		"slide": fmt.Sprintf("%#x", slide),
	}).Debug("Mapped Mach-O")

	return &Mapped{
		Snapshot: snap,
		Header:   loadAddr,
		Slide:    slide,
		Arch:     cfg,
	}, nil
}

// Image parses the mapped header.
func (m *Mapped) Image(name string) (*Image, error) {
	return Parse(m.Snapshot, m.Header, WithArch(m.Arch), WithSlide(m.Slide), WithName(name))
}
