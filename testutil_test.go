package corevm

import "testing"

// resetRuntime clears every process-global the runtime carries, so tests
// don't leak heap state, call depth, or an installed env table into one
// another.
func resetRuntime() {
	heapInit(16)
	currentThunk = nil
	callDepth = 0
	GlobalEnvTable = nil
	Debug = false
}

// forcedMinorGC promotes v via a throwaway thunk and returns the surviving
// (possibly forwarded) value, the shape every roundtrip property test
// needs: "promote via a forced minor GC, then inspect."
func forcedMinorGC(v *Value) *Value {
	resetRuntime()
	rator := MakeClosure1(func(env, rand *Value) {}, 0, EnvNew(0))
	thnk := newThunkOne(rator, v)
	gcMinor(thnk)
	return thnk.rand
}

type exitRecorder struct {
	called bool
	code   int
}

// stubExit swaps exitFunc for a recorder so a fatal path or a halt can be
// observed without killing the test binary, restoring the original on
// cleanup.
func stubExit(t *testing.T) *exitRecorder {
	t.Helper()
	rec := &exitRecorder{}
	old := exitFunc
	exitFunc = func(code int) {
		rec.called = true
		rec.code = code
	}
	t.Cleanup(func() { exitFunc = old })
	return rec
}

// expectFatal runs fn and asserts it triggers fatalf with the given kind,
// via exitFunc(1) followed by a fatalSignal panic.
func expectFatal(t *testing.T, kind ErrorKind, fn func()) {
	t.Helper()
	rec := stubExit(t)
	defer func() {
		r := recover()
		fs, ok := r.(fatalSignal)
		if !ok {
			t.Fatalf("expected a fatalSignal panic, got %#v", r)
		}
		if fs.Kind != kind {
			t.Fatalf("expected %s, got %s (%s)", kind, fs.Kind, fs.Msg)
		}
		if !rec.called || rec.code != 1 {
			t.Fatalf("expected exitFunc(1) to run before the panic")
		}
	}()
	fn()
	t.Fatalf("expected fn to trigger a fatal error, it returned normally")
}
