//go:build darwin && cgo && objc

package objc

/*
#include <stdlib.h>
#include <objc/runtime.h>
*/
import "C"
import (
	"unsafe"
)

type Class uintptr

func GetClass(name string) Class {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return (Class)(unsafe.Pointer(C.objc_getClass(cname)))
}

func GetMetaClass(name string) Class {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return (Class)(unsafe.Pointer(C.objc_getMetaClass(cname)))
}

func (cls Class) cclass() C.Class {
	return (C.Class)(unsafe.Pointer(cls))
}

func (cls Class) Name() string {
	return C.GoString(C.class_getName(cls.cclass()))
}

func (cls Class) Super() Class {
	return (Class)(unsafe.Pointer(C.class_getSuperclass(cls.cclass())))
}

func (cls Class) ImageName() string {
	return C.GoString(C.class_getImageName(cls.cclass()))
}

// CreateInstance allocates an instance of cls. Release it with Id.Dispose.
func (cls Class) CreateInstance(extraBytes uint) Id {
	return (Id)(unsafe.Pointer(C.class_createInstance(cls.cclass(), C.size_t(extraBytes))))
}
