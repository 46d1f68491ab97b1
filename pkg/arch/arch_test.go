package arch

import "testing"

func TestCoveringMask(t *testing.T) {
	tests := []struct {
		name string
		n    uint64
		want uint64
	}{
		{"zero", 0, 0x1},
		{"one", 1, 0x1},
		{"two", 2, 0x3},
		{"power of two", 0x1000, 0x1fff},
		{"arm64 vm max", 0x00007ffffffffff8 - 1, 0x00007fffffffffff},
		{"x86_64 vm max", 0x00007ffffffff000 - 1, 0x00007fffffffffff},
		{"exclavekit vm max", 0x0000001ffffffff8 - 1, 0x0000001fffffffff},
		{"all ones", ^uint64(0), ^uint64(0)},
		{"top bit", 1 << 63, ^uint64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoveringMask(tt.n); got != tt.want {
				t.Errorf("CoveringMask(%#x) = %#x, want %#x", tt.n, got, tt.want)
			}
		})
	}
}

func TestClassMask(t *testing.T) {
	tests := []struct {
		cfg  *Config
		want uint64
	}{
		{X86_64, 0x00007ffffffffff8},
		{ARM64, 0x0000000ffffffff8},
		{ARM64e, 0x00007ffffffffff8},
		{ARM64Simulator, 0x00007ffffffffff8},
		{ExclaveKit, 0x0000001ffffffff8},
		{I386, 0xffffffff},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Name, func(t *testing.T) {
			first := tt.cfg.ClassMask()
			if first != tt.want {
				t.Fatalf("ClassMask() = %#x, want %#x", first, tt.want)
			}
			for i := 0; i < 3; i++ {
				if got := tt.cfg.ClassMask(); got != first {
					t.Fatalf("ClassMask() not idempotent: got %#x, want %#x", got, first)
				}
			}
		})
	}
}

func TestIsTaggedPointer(t *testing.T) {
	for _, cfg := range All() {
		t.Run(cfg.Name, func(t *testing.T) {
			if cfg.IsTaggedPointer(0) {
				t.Errorf("IsTaggedPointer(0) = true, want false")
			}
			if cfg.TaggedMask == 0 {
				if cfg.IsTaggedPointer(^uint64(0)) {
					t.Errorf("IsTaggedPointer on an arch without tagged pointers returned true")
				}
				return
			}
			if !cfg.IsTaggedPointer(cfg.TaggedMask) {
				t.Errorf("IsTaggedPointer(%#x) = false, want true", cfg.TaggedMask)
			}
			if !cfg.IsTaggedPointer(cfg.TaggedMask | 0x1230) {
				t.Errorf("IsTaggedPointer(%#x) = false, want true", cfg.TaggedMask|0x1230)
			}
		})
	}

	if X86_64.IsTaggedPointer(0x7ff812345670) {
		t.Errorf("aligned x86_64 heap pointer reported as tagged")
	}
	if ARM64.IsTaggedPointer(0x0000000102345670) {
		t.Errorf("arm64 heap pointer reported as tagged")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in      string
		want    *Config
		wantErr bool
	}{
		{"x86_64", X86_64, false},
		{"amd64", X86_64, false},
		{"ARM64E", ARM64e, false},
		{"aarch64", ARM64, false},
		{"arm64-sim", ARM64Simulator, false},
		{"386", I386, false},
		{"ppc", nil, true},
	}
	for _, tt := range tests {
		got, err := Lookup(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDetect(t *testing.T) {
	if got := detect("", "arm64"); got != ARM64 {
		t.Errorf("detect(arm64) = %v, want arm64", got)
	}
	if got := detect("", "amd64"); got != X86_64 {
		t.Errorf("detect(amd64) = %v, want x86_64", got)
	}
	if got := detect("arm64e", "amd64"); got != ARM64e {
		t.Errorf("override ignored: got %v", got)
	}
	if got := detect("sparc", "arm64"); got != ARM64 {
		t.Errorf("bad override should fall back to GOARCH: got %v", got)
	}
	if Current() != Current() {
		t.Errorf("Current() must return the same configuration")
	}
}

func TestIs64(t *testing.T) {
	if !ARM64e.Is64() || I386.Is64() {
		t.Fatalf("unexpected record layout selection")
	}
}
