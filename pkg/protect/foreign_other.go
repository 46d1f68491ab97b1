//go:build !(darwin && cgo && objc)

package protect

import "unsafe"

// RunForeign always fails closed: without Objective-C exception support there
// is no way to run fn without risking an uncatchable abort.
func RunForeign(fn, ctx unsafe.Pointer) error {
	return ErrUnsupported
}
