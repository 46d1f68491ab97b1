//go:build unicorn

package memory

import (
	"github.com/pkg/errors"
	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"
)

// Unicorn exposes the guest memory of an emulator instance.
type Unicorn struct {
	MU uc.Unicorn
}

// ReadMemory implements Reader.
func (u Unicorn) ReadMemory(addr uint64, p []byte) (int, error) {
	if err := u.MU.MemReadInto(p, addr); err != nil {
		return 0, errors.Wrapf(err, "unicorn: failed to read %d bytes at %#x", len(p), addr)
	}
	return len(p), nil
}
