package memory

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Region is a contiguous run of bytes mapped at Addr.
type Region struct {
	Addr uint64
	Data []byte
	Name string
}

// Size is the number of bytes mapped by the region.
func (r *Region) Size() uint64 {
	return uint64(len(r.Data))
}

// Contains reports whether addr falls inside the region.
func (r *Region) Contains(addr uint64) bool {
	return r.Addr <= addr && addr < r.Addr+r.Size()
}

// Overlaps reports whether [addr, addr+size) intersects the region.
func (r *Region) Overlaps(addr, size uint64) bool {
	return r.Addr < addr+size && addr < r.Addr+r.Size()
}

func (r *Region) String() string {
	if r.Name != "" {
		return fmt.Sprintf("%s %#x-%#x", r.Name, r.Addr, r.Addr+r.Size())
	}
	return fmt.Sprintf("%#x-%#x", r.Addr, r.Addr+r.Size())
}

// Snapshot is a sparse address space made of non-overlapping regions. It is
// what a loaded image looks like when it is not loaded in this process: a
// memory dump, an emulator mapping, or a Mach-O mapped by Map.
type Snapshot struct {
	regions []*Region
}

// NewSnapshot returns an empty address space.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Map borrows data at addr. The slice is not copied.
func (s *Snapshot) Map(addr uint64, data []byte, name string) error {
	if len(data) == 0 {
		return nil
	}
	if addr+uint64(len(data)) < addr {
		return fmt.Errorf("region %q at %#x wraps the address space", name, addr)
	}
	for _, r := range s.regions {
		if r.Overlaps(addr, uint64(len(data))) {
			return fmt.Errorf("region %q at %#x overlaps %s", name, addr, r)
		}
	}
	s.regions = append(s.regions, &Region{Addr: addr, Data: data, Name: name})
	sort.Slice(s.regions, func(i, j int) bool {
		return s.regions[i].Addr < s.regions[j].Addr
	})
	return nil
}

// Regions returns the mapped regions sorted by address.
func (s *Snapshot) Regions() []*Region {
	return s.regions
}

// Find returns the region containing addr.
func (s *Snapshot) Find(addr uint64) *Region {
	i := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].Addr+s.regions[i].Size() > addr
	})
	if i < len(s.regions) && s.regions[i].Contains(addr) {
		return s.regions[i]
	}
	return nil
}

// ReadMemory implements Reader. Reads may span adjacent regions.
func (s *Snapshot) ReadMemory(addr uint64, p []byte) (int, error) {
	var n int
	for n < len(p) {
		r := s.Find(addr + uint64(n))
		if r == nil {
			return n, errors.Wrapf(ErrUnmapped, "%#x", addr+uint64(n))
		}
		n += copy(p[n:], r.Data[addr+uint64(n)-r.Addr:])
	}
	return n, nil
}
