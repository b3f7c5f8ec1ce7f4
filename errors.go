package corevm

import (
	"fmt"
	"os"

	"github.com/bobappleyard/corevm/internal/diag"
)

// ErrorKind classifies a fatal runtime error. The source language has no
// exception mechanism to unwind into and every kind here originates
// either from a compiler bug or from the program exhausting a resource,
// so every kind is fatal; there is no recoverable variant.
type ErrorKind int

const (
	ErrorArityMismatch ErrorKind = iota
	ErrorTypeError
	ErrorUnboundVariable
	ErrorInvariantViolation
	ErrorAllocationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorArityMismatch:
		return "ArityMismatch"
	case ErrorTypeError:
		return "TypeError"
	case ErrorUnboundVariable:
		return "UnboundVariable"
	case ErrorInvariantViolation:
		return "InvariantViolation"
	case ErrorAllocationFailure:
		return "AllocationFailure"
	default:
		return "UnknownError"
	}
}

// exitFunc is indirected so tests can observe a fatal path without killing
// the test binary. A single generated executable never overrides it; a
// host process that wants to run several independent programs against
// this runtime in one process (as cmd/corevmdemo does, one scenario after
// another) may install its own via SetExitFunc.
var exitFunc = os.Exit

// SetExitFunc installs the function halt_func and fatalf call to end a
// program. Defaults to os.Exit. Exposed for hosts that link more than one
// corevm program into a single process and need to intercept termination
// instead of ending the whole process.
func SetExitFunc(f func(code int)) {
	exitFunc = f
}

// fatalSignal carries a fatal error past exitFunc, for the (test-only)
// case where exitFunc doesn't actually terminate the process.
type fatalSignal struct {
	Kind ErrorKind
	Msg  string
}

func (f fatalSignal) Error() string { return fmt.Sprintf("%s: %s", f.Kind, f.Msg) }

// fatalf logs kind and a formatted diagnostic to standard error, then
// exits the process with status 1.
func fatalf(kind ErrorKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	diag.Errorf("%s: %s", kind, msg)
	exitFunc(1)
	panic(fatalSignal{Kind: kind, Msg: msg})
}
