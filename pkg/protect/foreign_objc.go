//go:build darwin && cgo && objc

package protect

/*
#cgo CFLAGS: -x objective-c -fobjc-exceptions
#cgo LDFLAGS: -lobjc -framework Foundation
#import <Foundation/Foundation.h>
#include <stdlib.h>
#include <string.h>

typedef void (*protect_fn)(void *);

static char *protect_strdup(NSString *s) {
	const char *c = [s UTF8String];
	return strdup(c ? c : "");
}

static int protect_try(protect_fn fn, void *ctx, char **name, char **reason) {
	@try {
		fn(ctx);
	} @catch (NSException *e) {
		*name = protect_strdup([e name]);
		*reason = protect_strdup([e reason]);
		return 1;
	} @catch (id e) {
		*name = strdup("unknown");
		*reason = protect_strdup([e description]);
		return 1;
	}
	return 0;
}

static void protect_noop(void *ctx) {}

static void protect_raise(void *ctx) {
	[NSException raise:NSInvalidArgumentException format:@"%s", (const char *)ctx];
}
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/apex/log"
)

// RunForeign calls the C function fn with ctx inside an Objective-C @try
// block. An exception thrown by fn comes back as an *Error carrying its name
// and reason; the process keeps running.
func RunForeign(fn, ctx unsafe.Pointer) error {
	if fn == nil {
		return errors.New("nil function pointer")
	}
	var name, reason *C.char
	if C.protect_try(C.protect_fn(fn), ctx, &name, &reason) == 0 {
		return nil
	}
	defer C.free(unsafe.Pointer(name))
	defer C.free(unsafe.Pointer(reason))

	err := &Error{Name: C.GoString(name), Reason: C.GoString(reason)}
	log.WithFields(log.Fields{
		"name":   err.Name,
		"reason": err.Reason,
	}).Debug("Caught foreign exception")
	return err
}

func noopFunc() unsafe.Pointer  { return unsafe.Pointer(C.protect_noop) }
func raiseFunc() unsafe.Pointer { return unsafe.Pointer(C.protect_raise) }
