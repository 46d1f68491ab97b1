//go:build darwin && cgo && objc

package objc

// #include <objc/runtime.h>
import "C"
import "unsafe"

type Id uintptr

func (obj Id) cid() C.id {
	return (C.id)(unsafe.Pointer(obj))
}

// Class is object_getClass, which also understands tagged pointers.
func (obj Id) Class() Class {
	return (Class)(unsafe.Pointer(C.object_getClass(obj.cid())))
}

func (obj Id) Dispose() Id {
	return (Id)(unsafe.Pointer(C.object_dispose(obj.cid())))
}
