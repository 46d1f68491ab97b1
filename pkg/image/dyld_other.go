//go:build !(darwin && cgo)

package image

// Loaded returns every image dyld has mapped into this process.
func Loaded() (*List, error) {
	return nil, ErrUnsupported
}
