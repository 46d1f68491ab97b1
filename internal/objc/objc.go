//go:build darwin && cgo && objc

package objc

/*
#include <stdlib.h>
#include <objc/objc-runtime.h>
*/
import "C"

import (
	"unsafe"
)

// ImageNames lists every image that registered Objective-C classes.
func ImageNames() (imageNames []string) {
	var coutCount C.uint

	imageNameList := C.objc_copyImageNames(&coutCount)
	defer C.free(unsafe.Pointer(imageNameList))

	if outCount := uint(coutCount); outCount > 0 {
		imageNames = make([]string, outCount)

		for i, elem := uint(0), imageNameList; i < outCount; i++ {
			imageNames[i] = C.GoString(*elem)
			elem = nextString(elem)
		}
	}

	return
}

// ClassNamesForImage lists the classes an image registered.
func ClassNamesForImage(image string) (classNames []string) {
	var coutCount C.uint

	cimage := C.CString(image)
	defer C.free(unsafe.Pointer(cimage))

	classNameList := C.objc_copyClassNamesForImage(cimage, &coutCount)
	defer C.free(unsafe.Pointer(classNameList))

	if outCount := uint(coutCount); outCount > 0 {
		classNames = make([]string, outCount)

		for i, elem := uint(0), classNameList; i < outCount; i++ {
			classNames[i] = C.GoString(*elem)
			elem = nextString(elem)
		}
	}

	return
}

func nextString(list **C.char) **C.char {
	ptr := uintptr(unsafe.Pointer(list)) + unsafe.Sizeof(*list)
	return (**C.char)(unsafe.Pointer(ptr))
}
