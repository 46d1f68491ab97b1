//go:build darwin && cgo && objc

/*
Package objc bridges to the host Objective-C runtime (libobjc).

It is the authority the resolver in pkg/objc defers to for superclass links of
classes living in this process, and a cross-check for the bit-level isa
decoding.
*/
package objc

// #cgo CFLAGS: -W -Wall -Wno-unused-parameter -Wno-unused-function -O3
// #cgo LDFLAGS: -lobjc
import "C"
