//go:build !(darwin && cgo && objc)

// Package objc bridges to the host Objective-C runtime. This build has no
// libobjc; every query fails with ErrUnsupported.
package objc

import (
	objcrt "github.com/blacktop/introspect/pkg/objc"
)

// Supported reports whether this build links against libobjc.
const Supported = false

// Host answers superclass queries with class_getSuperclass.
type Host struct{}

// Superclass implements objcrt.Runtime.
func (Host) Superclass(cls objcrt.Class) (objcrt.Class, bool, error) {
	return 0, false, ErrUnsupported
}

// ClassNames maps every class registered by the runtime to its image.
func ClassNames() map[string][]string {
	return nil
}

// Lookup returns the class registered under name.
func Lookup(name string) (objcrt.Class, error) {
	return 0, ErrUnsupported
}

// ClassName returns the registered name of cls.
func ClassName(cls objcrt.Class) string {
	return ""
}

// ClassImage returns the path of the image that registered cls.
func ClassImage(cls objcrt.Class) string {
	return ""
}
