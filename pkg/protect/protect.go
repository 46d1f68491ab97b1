// Package protect runs code that may fail in ways Go cannot express as an
// error value and turns that failure into one.
package protect

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/apex/log"
)

const maxStack = 64 << 10

// ErrUnsupported is returned by RunForeign when the host has no Objective-C
// exception support compiled in.
var ErrUnsupported = errors.New("foreign exceptions are only caught on darwin with the objc build tag")

// Error is a failure caught by Run or RunForeign.
type Error struct {
	// Value is what was passed to panic. Nil for foreign exceptions.
	Value any
	// Stack is the goroutine stack at the point of the panic.
	Stack []byte
	// Name and Reason describe a foreign (NSException) failure.
	Name   string
	Reason string
}

func (e *Error) Error() string {
	if e.Name != "" {
		if e.Reason == "" {
			return fmt.Sprintf("uncaught exception %s", e.Name)
		}
		return fmt.Sprintf("uncaught exception %s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is itself an error.
func (e *Error) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Run calls action and returns any panic it raised as an *Error. Memory
// faults inside action panic instead of killing the process. Failures are
// reported once and never retried.
func Run(action func()) (err error) {
	if action == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, maxStack)
			n := runtime.Stack(buf, false)
			err = &Error{Value: r, Stack: buf[:n]}
			log.WithField("panic", r).Debug("Recovered from panic")
		}
	}()
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	action()
	return nil
}
