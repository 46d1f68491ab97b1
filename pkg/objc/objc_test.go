package objc

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/blacktop/introspect/pkg/arch"
	"github.com/blacktop/introspect/pkg/memory"
)

const (
	rootClass   = Class(0x7ff810000000) // NSObject
	middleClass = Class(0x7ff810000100) // NSString
	leafClass   = Class(0x7ff810000200) // __NSCFString
)

// newHeap maps one object per isa word starting at 0x600000000000 and the
// three test classes with their superclass links.
func newHeap(t *testing.T, words ...uint64) *memory.Snapshot {
	t.Helper()

	heap := make([]byte, 16*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint64(heap[i*16:], w)
	}
	classes := make([]byte, 0x300)
	binary.LittleEndian.PutUint64(classes[0x108:], uint64(rootClass))
	binary.LittleEndian.PutUint64(classes[0x208:], uint64(middleClass))

	s := memory.NewSnapshot()
	if err := s.Map(0x600000000000, heap, "heap"); err != nil {
		t.Fatal(err)
	}
	if err := s.Map(uint64(rootClass), classes, "__DATA.__objc_data"); err != nil {
		t.Fatal(err)
	}
	return s
}

func objectAt(i int) uint64 {
	return 0x600000000000 + uint64(i)*16
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *arch.Config
		isa     uint64
		want    Class
		wantEnc Encoding
	}{
		{
			name:    "x86_64 raw pointer",
			cfg:     arch.X86_64,
			isa:     0x00007ff812345670,
			want:    0x00007ff812345670,
			wantEnc: Raw,
		},
		{
			name:    "x86_64 packed with refcount and has_assoc",
			cfg:     arch.X86_64,
			isa:     0x001d800000000001 | 0x00007ff812345670 | 1<<57 | 1<<1,
			want:    0x00007ff812345670,
			wantEnc: Packed,
		},
		{
			name:    "x86_64 unknown layout",
			cfg:     arch.X86_64,
			isa:     0x00007ff812345670 | 1<<60 | 1,
			want:    0x00007ff812345670 | 1<<60 | 1,
			wantEnc: Unknown,
		},
		{
			name:    "arm64 packed",
			cfg:     arch.ARM64,
			isa:     0x000001a000000001 | 0x0000000102345670 | 1<<45,
			want:    0x0000000102345670,
			wantEnc: Packed,
		},
		{
			name:    "arm64 raw",
			cfg:     arch.ARM64,
			isa:     0x0000000102345670,
			want:    0x0000000102345670,
			wantEnc: Raw,
		},
		{
			name:    "arm64e packed",
			cfg:     arch.ARM64e,
			isa:     1 | 0x00000001e2345678&0x007ffffffffffff8 | 1<<62,
			want:    0x00000001e2345678 & 0x007ffffffffffff8,
			wantEnc: Packed,
		},
		{
			name:    "arm64e unknown",
			cfg:     arch.ARM64e,
			isa:     0x00000001e2345670 | 1<<62,
			want:    0x00000001e2345670 | 1<<62,
			wantEnc: Unknown,
		},
		{
			name:    "i386 raw",
			cfg:     arch.I386,
			isa:     0xa0b0c0d0,
			want:    0xa0b0c0d0,
			wantEnc: Raw,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc := Decode(tt.cfg, tt.isa)
			if got != tt.want {
				t.Errorf("Decode(%#x) = %#x, want %#x", tt.isa, uint64(got), uint64(tt.want))
			}
			if enc != tt.wantEnc {
				t.Errorf("Decode(%#x) encoding = %s, want %s", tt.isa, enc, tt.wantEnc)
			}
		})
	}
}

func TestClassOf(t *testing.T) {
	raw := uint64(leafClass)
	packed := 0x001d800000000001 | uint64(leafClass) | 1<<56
	odd := uint64(leafClass) | 1<<63 | 1

	r := NewResolver(newHeap(t, raw, packed, odd), arch.X86_64, nil)

	got, err := r.ClassOf(objectAt(0))
	if err != nil {
		t.Fatalf("ClassOf failed: %v", err)
	}
	if got != Class(raw) {
		t.Fatalf("ClassOf(raw) = %s, want the isa word %#x unchanged", got, raw)
	}

	got, enc, err := r.ClassOfWithEncoding(objectAt(1))
	if err != nil {
		t.Fatalf("ClassOf failed: %v", err)
	}
	if want := Class(packed & arch.X86_64.Isa.Mask); got != want || enc != Packed {
		t.Fatalf("ClassOf(packed) = %s/%s, want %s/packed", got, enc, want)
	}

	got, enc, err = r.ClassOfWithEncoding(objectAt(2))
	if err != nil {
		t.Fatalf("ClassOf failed: %v", err)
	}
	if got != Class(odd) || enc != Unknown {
		t.Fatalf("ClassOf(unknown) = %s/%s, want %#x/unknown", got, enc, odd)
	}

	if _, err := r.ClassOf(0x10); !errors.Is(err, memory.ErrUnmapped) {
		t.Fatalf("expected ErrUnmapped for an unmapped object, got %v", err)
	}
}

func TestIsTaggedPointer(t *testing.T) {
	r := NewResolver(memory.NewSnapshot(), arch.ARM64, nil)
	if !r.IsTaggedPointer(arch.ARM64.TaggedMask) {
		t.Errorf("IsTaggedPointer(tag mask) = false, want true")
	}
	if r.IsTaggedPointer(0) {
		t.Errorf("IsTaggedPointer(nil) = true, want false")
	}
	if got, want := r.ClassMask(), arch.ARM64.ClassMask(); got != want {
		t.Errorf("ClassMask() = %#x, want %#x", got, want)
	}
}

func TestSuperclassOf(t *testing.T) {
	r := NewResolver(newHeap(t), arch.X86_64, nil)

	super, ok, err := r.SuperclassOf(leafClass)
	if err != nil || !ok || super != middleClass {
		t.Fatalf("SuperclassOf(leaf) = %s, %v, %v; want %s", super, ok, err, middleClass)
	}
	super, ok, err = r.SuperclassOf(middleClass)
	if err != nil || !ok || super != rootClass {
		t.Fatalf("SuperclassOf(middle) = %s, %v, %v; want %s", super, ok, err, rootClass)
	}
	if _, ok, err := r.SuperclassOf(rootClass); err != nil || ok {
		t.Fatalf("SuperclassOf(root) = %v, %v; want none", ok, err)
	}

	chain, err := r.Hierarchy(leafClass)
	if err != nil {
		t.Fatalf("Hierarchy failed: %v", err)
	}
	want := []Class{leafClass, middleClass, rootClass}
	if len(chain) != len(want) {
		t.Fatalf("Hierarchy = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("Hierarchy[%d] = %s, want %s", i, chain[i], want[i])
		}
	}

	if ok, err := r.IsKindOf(leafClass, rootClass); err != nil || !ok {
		t.Fatalf("IsKindOf(leaf, root) = %v, %v; want true", ok, err)
	}
	if ok, err := r.IsKindOf(rootClass, leafClass); err != nil || ok {
		t.Fatalf("IsKindOf(root, leaf) = %v, %v; want false", ok, err)
	}
}

func TestStaticRuntime(t *testing.T) {
	rt := StaticRuntime{leafClass: middleClass, middleClass: rootClass}
	r := NewResolver(memory.NewSnapshot(), arch.ARM64, rt)

	if _, ok, _ := r.SuperclassOf(rootClass); ok {
		t.Fatalf("root class must have no superclass")
	}
	if super, ok, _ := r.SuperclassOf(leafClass); !ok || super != middleClass {
		t.Fatalf("SuperclassOf(leaf) = %s, want %s", super, middleClass)
	}
}

func TestHierarchyCycle(t *testing.T) {
	rt := StaticRuntime{leafClass: middleClass, middleClass: leafClass}
	r := NewResolver(memory.NewSnapshot(), arch.ARM64, rt)

	chain, err := r.Hierarchy(leafClass)
	if !errors.Is(err, ErrHierarchyTooDeep) {
		t.Fatalf("expected ErrHierarchyTooDeep, got %v", err)
	}
	if len(chain) != MaxHierarchyDepth+1 {
		t.Fatalf("chain length = %d, want %d", len(chain), MaxHierarchyDepth+1)
	}
}
