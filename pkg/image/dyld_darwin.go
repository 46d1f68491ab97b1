//go:build darwin && cgo

package image

/*
#include <stdint.h>
#include <mach-o/dyld.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/apex/log"
	"github.com/blacktop/introspect/pkg/memory"
)

// Loaded returns every image dyld has mapped into this process.
//
// The list is a point-in-time copy; images loaded or unloaded afterwards are
// not reflected and an unloaded image's symbols must not be walked.
func Loaded() (*List, error) {
	count := uint32(C._dyld_image_count())
	l := NewList()
	for i := uint32(0); i < count; i++ {
		hdr := C._dyld_get_image_header(C.uint32_t(i))
		if hdr == nil {
			continue
		}
		name := C.GoString(C._dyld_get_image_name(C.uint32_t(i)))
		slide := int64(C._dyld_get_image_vmaddr_slide(C.uint32_t(i)))

		img, err := Parse(memory.Self{}, uint64(uintptr(unsafe.Pointer(hdr))),
			WithSlide(slide),
			WithName(name),
		)
		if err != nil {
			log.WithError(err).WithField("image", name).Warn("Skipping image")
			continue
		}
		l.Add(img)
	}
	if l.Len() == 0 {
		return nil, fmt.Errorf("dyld reported no parsable images (count=%d)", count)
	}
	return l, nil
}
