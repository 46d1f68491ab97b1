// Package memory provides borrowed, read-only views of foreign memory.
//
// A Reader never owns the bytes it exposes. Whatever a Reader reads out of a
// loaded image stays valid only as long as that image stays mapped; the loader
// gives no unload notification so this is a lifetime contract on the caller,
// not something the types enforce.
package memory

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnmapped is returned when an address is not backed by the view.
var ErrUnmapped = errors.New("address not mapped")

// Reader reads bytes at an absolute address.
//
// ReadMemory returns the number of bytes read. A short read must come with a
// non-nil error.
type Reader interface {
	ReadMemory(addr uint64, p []byte) (int, error)
}

// ByteOrder is the byte order of every supported Apple target.
var ByteOrder binary.ByteOrder = binary.LittleEndian

// ReadFull reads exactly len(p) bytes at addr.
func ReadFull(r Reader, addr uint64, p []byte) error {
	n, err := r.ReadMemory(addr, p)
	if err != nil {
		return errors.Wrapf(err, "failed to read %d bytes at %#x", len(p), addr)
	}
	if n != len(p) {
		return errors.Wrapf(ErrUnmapped, "short read at %#x (%d of %d bytes)", addr, n, len(p))
	}
	return nil
}

// ReadWord reads a pointer sized (4 or 8 byte) little endian word.
func ReadWord(r Reader, addr uint64, size int) (uint64, error) {
	switch size {
	case 4:
		var buf [4]byte
		if err := ReadFull(r, addr, buf[:]); err != nil {
			return 0, err
		}
		return uint64(ByteOrder.Uint32(buf[:])), nil
	case 8:
		var buf [8]byte
		if err := ReadFull(r, addr, buf[:]); err != nil {
			return 0, err
		}
		return ByteOrder.Uint64(buf[:]), nil
	default:
		return 0, fmt.Errorf("unsupported word size %d", size)
	}
}

// ReadStruct decodes a fixed size structure at addr.
func ReadStruct(r Reader, addr uint64, data any) error {
	buf := make([]byte, binary.Size(data))
	if err := ReadFull(r, addr, buf); err != nil {
		return err
	}
	return binary.Read(bytes.NewReader(buf), ByteOrder, data)
}

// MaxCString bounds ReadCString so a missing terminator cannot walk the whole
// address space.
const MaxCString = 4096

// ErrUnterminated is returned when no NUL terminator is found within the
// bound of a string read.
var ErrUnterminated = errors.New("string is not NUL terminated")

// ReadCString reads a NUL terminated string of at most MaxCString bytes
// starting at addr.
func ReadCString(r Reader, addr uint64) (string, error) {
	return ReadCStringN(r, addr, MaxCString)
}

// ReadCStringN reads a NUL terminated string starting at addr whose
// terminator must lie within the next limit bytes. A string that runs past
// limit is an ErrUnterminated error, never a truncated result.
func ReadCStringN(r Reader, addr uint64, limit int) (string, error) {
	var (
		out   []byte
		chunk [64]byte
	)
	for len(out) < limit {
		buf := chunk[:min(len(chunk), limit-len(out))]
		n, err := r.ReadMemory(addr+uint64(len(out)), buf)
		if n > 0 {
			if i := bytes.IndexByte(buf[:n], 0); i >= 0 {
				return string(append(out, buf[:i]...)), nil
			}
			out = append(out, buf[:n]...)
		}
		if err != nil && n == 0 {
			return "", errors.Wrapf(err, "failed to read string at %#x", addr)
		}
	}
	return "", errors.Wrapf(ErrUnterminated, "no terminator within %d bytes of %#x", limit, addr)
}
