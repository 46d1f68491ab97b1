package protect

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	if err := Run(func() {}); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if err := Run(nil); err != nil {
		t.Fatalf("Run(nil) = %v, want nil", err)
	}

	err := Run(func() { panic("boom") })
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Run() = %v, want an *Error", err)
	}
	if perr.Value != "boom" {
		t.Errorf("Value = %v, want boom", perr.Value)
	}
	if !strings.Contains(string(perr.Stack), "TestRun") {
		t.Errorf("Stack does not include the panicking test:\n%s", perr.Stack)
	}
	if got := perr.Error(); got != "panic: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestRunWrapsErrors(t *testing.T) {
	err := Run(func() { panic(io.ErrUnexpectedEOF) })
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Run() = %v, want it to wrap io.ErrUnexpectedEOF", err)
	}
}

func TestRunNilDereference(t *testing.T) {
	var p *int
	err := Run(func() { _ = *p })
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("Run() = %v, want an *Error", err)
	}
	if _, ok := perr.Value.(error); !ok {
		t.Errorf("Value = %T, want a runtime error", perr.Value)
	}
}

func TestErrorForeign(t *testing.T) {
	err := &Error{Name: "NSRangeException", Reason: "index 3 beyond bounds"}
	if got, want := err.Error(), "uncaught exception NSRangeException: index 3 beyond bounds"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", err.Unwrap())
	}
}
