package cmd

import (
	"os"
	"testing"

	"github.com/blacktop/introspect/internal/objc"
	"github.com/blacktop/introspect/pkg/memory"
)

func TestObjectSource(t *testing.T) {
	tests := []struct {
		name     string
		pid      int
		wantSelf bool
		wantHost bool
	}{
		{"default", 0, true, objc.Supported},
		{"own pid", os.Getpid(), true, objc.Supported},
		{"other pid", os.Getpid() + 1, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem, rt := objectSource(tt.pid)
			if _, ok := mem.(memory.Self); ok != tt.wantSelf {
				t.Fatalf("objectSource(%d) reader = %T", tt.pid, mem)
			}
			if _, ok := rt.(objc.Host); ok != tt.wantHost {
				t.Fatalf("objectSource(%d) runtime = %T, want host %v", tt.pid, rt, tt.wantHost)
			}
			if !tt.wantSelf && rt != nil {
				t.Fatalf("objectSource(%d) runtime = %T, want class metadata", tt.pid, rt)
			}
		})
	}
}
