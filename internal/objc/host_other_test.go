//go:build !(darwin && cgo && objc)

package objc

import (
	"errors"
	"testing"

	objcrt "github.com/blacktop/introspect/pkg/objc"
)

func TestHostUnsupported(t *testing.T) {
	if Supported {
		t.Fatal("Supported = true without libobjc")
	}
	if _, err := Lookup("NSObject"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Lookup() = %v, want ErrUnsupported", err)
	}
	r := objcrt.NewResolver(nil, nil, Host{})
	if _, err := r.Hierarchy(0x1000); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Hierarchy() = %v, want ErrUnsupported", err)
	}
	if img := ClassImage(0x1000); img != "" {
		t.Fatalf("ClassImage() = %q without a runtime", img)
	}
	if ClassNames() != nil {
		t.Fatal("ClassNames() returned classes without a runtime")
	}
}
