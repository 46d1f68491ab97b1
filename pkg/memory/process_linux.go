//go:build linux

package memory

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Process reads another process's memory with process_vm_readv(2).
type Process struct {
	Pid int
}

// ReadMemory implements Reader.
func (p Process) ReadMemory(addr uint64, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}

	n, err := unix.ProcessVMReadv(p.Pid, local, remote, 0)
	if err != nil {
		return n, errors.Wrapf(err, "process_vm_readv pid=%d addr=%#x", p.Pid, addr)
	}
	if n < len(buf) {
		return n, errors.Wrapf(ErrUnmapped, "pid=%d addr=%#x", p.Pid, addr+uint64(n))
	}
	return n, nil
}
