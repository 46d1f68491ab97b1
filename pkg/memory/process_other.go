//go:build !linux

package memory

import "fmt"

// Process reads another process's memory. Only linux is supported.
type Process struct {
	Pid int
}

// ReadMemory implements Reader.
func (p Process) ReadMemory(addr uint64, buf []byte) (int, error) {
	return 0, fmt.Errorf("reading memory of pid %d is not supported on this platform", p.Pid)
}
