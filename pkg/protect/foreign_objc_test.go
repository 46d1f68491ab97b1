//go:build darwin && cgo && objc

package protect

import (
	"errors"
	"testing"
	"unsafe"
)

func TestRunForeign(t *testing.T) {
	if err := RunForeign(noopFunc(), nil); err != nil {
		t.Fatalf("RunForeign(noop) = %v, want nil", err)
	}

	msg := []byte("bad index\x00")
	err := RunForeign(raiseFunc(), unsafe.Pointer(&msg[0]))
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("RunForeign(raise) = %v, want an *Error", err)
	}
	if perr.Name != "NSInvalidArgumentException" || perr.Reason != "bad index" {
		t.Errorf("caught %s: %s", perr.Name, perr.Reason)
	}

	if err := RunForeign(nil, nil); err == nil {
		t.Fatal("RunForeign(nil) succeeded")
	}
}
