package memory

import (
	"unsafe"

	"github.com/blacktop/introspect/pkg/protect"
	"github.com/pkg/errors"
)

// Self reads the current process's own address space.
//
// A read that faults comes back as ErrUnmapped instead of crashing the
// process, but there is no guarantee an address that happens to be mapped
// holds what the caller expects. Only hand Self addresses that came from the
// loader or the object runtime.
type Self struct{}

// ReadMemory implements Reader.
func (Self) ReadMemory(addr uint64, p []byte) (n int, err error) {
	if addr == 0 {
		return 0, ErrUnmapped
	}
	if perr := protect.Run(func() {
		src := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(p))
		n = copy(p, src)
	}); perr != nil {
		// keep whatever precedes the fault
		for n = 0; n < len(p); n++ {
			if protect.Run(func() {
				p[n] = *(*byte)(unsafe.Pointer(uintptr(addr) + uintptr(n)))
			}) != nil {
				break
			}
		}
		return n, errors.Wrapf(ErrUnmapped, "%#x: %v", addr+uint64(n), perr)
	}
	return n, nil
}

// Address returns the address of ptr as seen by Self.
func Address[T any](ptr *T) uint64 {
	return uint64(uintptr(unsafe.Pointer(ptr)))
}
