//go:build !(darwin && cgo && objc)

package protect

import (
	"errors"
	"testing"
)

func TestRunForeignUnsupported(t *testing.T) {
	if err := RunForeign(nil, nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("RunForeign() = %v, want ErrUnsupported", err)
	}
}
