package image

import (
	"runtime"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	pageShift       = 12
	containingCache = 512
)

// List is a set of loaded images that can be searched by address.
type List struct {
	images []*Image
	cache  *lru.Cache[uint64, *Image]
}

// NewList returns a List over images.
func NewList(images ...*Image) *List {
	cache, _ := lru.New[uint64, *Image](containingCache)
	l := &List{cache: cache}
	l.Add(images...)
	return l
}

// Add appends images and drops cached lookups.
func (l *List) Add(images ...*Image) {
	l.images = append(l.images, images...)
	sort.SliceStable(l.images, func(i, j int) bool {
		return l.images[i].Header < l.images[j].Header
	})
	l.cache.Purge()
}

// Images returns the images sorted by header address.
func (l *List) Images() []*Image {
	return l.images
}

// Len is the number of images.
func (l *List) Len() int {
	return len(l.images)
}

// ByName returns the image loaded from path.
func (l *List) ByName(path string) (*Image, bool) {
	for _, img := range l.images {
		if img.Name == path {
			return img, true
		}
	}
	return nil, false
}

// Containing returns the image with a segment that contains addr.
func (l *List) Containing(addr uint64) (*Image, bool) {
	page := addr >> pageShift
	if img, ok := l.cache.Get(page); ok && img.Contains(addr) {
		return img, true
	}
	for _, img := range l.images {
		if img.Contains(addr) {
			l.cache.Add(page, img)
			return img, true
		}
	}
	return nil, false
}

// CallerAddress returns the return address of the function that called
// CallerAddress's caller, i.e. where execution resumes once the current
// function returns. Combined with List.Containing it tells a piece of code
// which image it was called from.
//
//go:noinline
func CallerAddress() uint64 {
	var pcs [1]uintptr
	// 0 is runtime.Callers, 1 is CallerAddress, 2 is the current function.
	if runtime.Callers(3, pcs[:]) == 0 {
		return 0
	}
	return uint64(pcs[0])
}

// Self returns the image containing the code that called Self.
//
//go:noinline
func Self(l *List) (*Image, uint64, bool) {
	addr := CallerAddress()
	img, ok := l.Containing(addr)
	return img, addr, ok
}
