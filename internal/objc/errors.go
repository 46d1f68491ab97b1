package objc

import "errors"

var (
	// ErrUnsupported is returned when the host runtime is not linked in.
	ErrUnsupported = errors.New("host Objective-C runtime not available (build on darwin with -tags objc)")
	// ErrNoClass is returned by Lookup for a name the runtime does not know.
	ErrNoClass = errors.New("no such class")
)
