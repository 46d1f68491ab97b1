//go:build darwin && cgo && objc

package objc

import (
	"fmt"

	objcrt "github.com/blacktop/introspect/pkg/objc"
)

// Supported reports whether this build links against libobjc.
const Supported = true

// Host answers superclass queries with class_getSuperclass.
type Host struct{}

// Superclass implements objcrt.Runtime.
func (Host) Superclass(cls objcrt.Class) (objcrt.Class, bool, error) {
	super := Class(uintptr(cls)).Super()
	if super == 0 {
		return 0, false, nil
	}
	return objcrt.Class(super), true, nil
}

// ClassNames maps every class registered by the runtime to its image.
func ClassNames() map[string][]string {
	out := make(map[string][]string)
	for _, img := range ImageNames() {
		out[img] = ClassNamesForImage(img)
	}
	return out
}

// Lookup returns the class registered under name.
func Lookup(name string) (objcrt.Class, error) {
	cls := GetClass(name)
	if cls == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoClass, name)
	}
	return objcrt.Class(cls), nil
}

// ClassName returns the registered name of cls.
func ClassName(cls objcrt.Class) string {
	return Class(uintptr(cls)).Name()
}

// ClassImage returns the path of the image that registered cls.
func ClassImage(cls objcrt.Class) string {
	return Class(uintptr(cls)).ImageName()
}
