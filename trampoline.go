package corevm

import (
	"fmt"

	"github.com/bobappleyard/corevm/internal/diag"
)

// MaxCallDepth bounds how many direct (non-bouncing) CallOne/CallTwo
// invocations may nest before the trampoline forces a bounce. The default
// approximates the reference runtime's 256 KiB stack safety buffer:
// goroutine stacks grow in 8 KiB-ish increments up to a multi-GiB ceiling,
// so a bound in the low thousands trips long before Go's own guard page
// would, while still letting ordinary (non-tail) recursion run to a
// realistic depth between bounces.
var MaxCallDepth = 4096

var (
	currentThunk *Thunk
	callDepth    int
)

// bounceSignal is panicked from deep inside a CallOne/CallTwo chain once
// the call-depth guard trips. SchemeStart's dispatch loop recovers it and
// re-enters the pending thunk at a shallow stack depth. This is Go's
// structural equivalent of the reference runtime's longjmp to
// trampoline_landing: every frame between the panic site and the recover
// is unwound, never resumed.
type bounceSignal struct{}

// haltSignal unwinds back to SchemeStart when the halt continuation runs,
// so a test-injected exitFunc that doesn't actually terminate the process
// still stops the dispatch loop cleanly.
type haltSignal struct{ code int }

// CallOne invokes an arity-ONE closure with rand. While the call-depth
// guard has room it calls straight through, preserving ordinary Go (and
// therefore program) call order. Once the guard trips, it promotes the
// pending call to a heap thunk, runs the collector, and bounces back to
// the trampoline loop.
func CallOne(rator, rand *Value) {
	requireClosure(rator, "call_one")
	if rator.tag != TagClosure1 {
		fatalf(ErrorArityMismatch, "call_one: called arity-2 closure with 1 arg")
	}
	if callDepth < MaxCallDepth {
		callDepth++
		rator.fn1(rator.env, rand)
		callDepth--
		return
	}
	bounce(newThunkOne(rator, rand))
}

// CallTwo invokes an arity-TWO (value, continuation) closure, applying the
// same direct-call-or-bounce policy as CallOne.
func CallTwo(rator, rand, cont *Value) {
	requireClosure(rator, "call_two")
	if rator.tag != TagClosure2 {
		fatalf(ErrorArityMismatch, "call_two: called arity-1 closure with 2 args")
	}
	if callDepth < MaxCallDepth {
		callDepth++
		rator.fn2(rator.env, rand, cont)
		callDepth--
		return
	}
	bounce(newThunkTwo(rator, rand, cont))
}

func requireClosure(rator *Value, site string) {
	if rator == nil || (rator.tag != TagClosure1 && rator.tag != TagClosure2) {
		fatalf(ErrorTypeError, "%s: operator position does not hold a closure", site)
	}
}

func bounce(thnk *Thunk) {
	diag.Debugf("call depth guard tripped at %d, bouncing", callDepth)
	gcMinor(thnk)
	currentThunk = thnk
	panic(bounceSignal{})
}

// SchemeStart is the runtime's single entry point from main: it takes
// ownership of initial and dispatches it. It returns only once the halt
// continuation has run; the halt closure is the only terminal
// continuation the compiler ever wires in.
func SchemeStart(initial *Thunk) {
	heapInit(InitialHeapCapacity)
	currentThunk = initial

	for {
		callDepth = 0
		if dispatchOnce() {
			return
		}
	}
}

// dispatchOnce runs the pending thunk at the trampoline's shallow stack
// depth and reports whether the program halted. A bounce recovered here
// simply lets the outer loop re-enter with the newly promoted thunk.
func dispatchOnce() (halted bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch r.(type) {
		case bounceSignal:
		case haltSignal:
			halted = true
		default:
			panic(r)
		}
	}()

	thnk := currentThunk
	currentThunk = nil // consumed; nothing else can reach the heap thunk now

	switch thnk.closure.tag {
	case TagClosure1:
		thnk.closure.fn1(thnk.closure.env, thnk.rand)
	case TagClosure2:
		thnk.closure.fn2(thnk.closure.env, thnk.rand, thnk.cont)
	default:
		fatalf(ErrorTypeError, "scheme_start: pending thunk's closure has tag %s", thnk.closure.tag)
	}

	fatalf(ErrorInvariantViolation, "control returned from a compiled procedure without tail-calling or halting")
	return false
}

func haltFn(env, rand *Value) {
	msg := "Halt"
	fmt.Println(msg)
	diag.Infof(msg)
	exitFunc(0)
	panic(haltSignal{code: 0})
}

// NewHalt constructs the terminal continuation the compiler wires as the
// outermost continuation of the entry point: an arity-ONE closure that
// prints "Halt" and exits the process with status 0.
func NewHalt() *Value {
	return MakeClosure1(haltFn, 0, EnvNew(0))
}
