package corevm

import (
	"testing"

	"github.com/bobappleyard/corevm/envtable"
)

// TestScenarioS1Halt: halt is the initial thunk's continuation; the
// program exits with code 0 (and prints "Halt", not asserted here).
func TestScenarioS1Halt(t *testing.T) {
	resetRuntime()
	rec := stubExit(t)
	halt := NewHalt()
	SchemeStart(NewInitialThunk(halt, MakeVoid()))
	if !rec.called || rec.code != 0 {
		t.Fatalf("expected halt to exit 0, got called=%v code=%d", rec.called, rec.code)
	}
}

const (
	factVarN    envtable.VarID = 0
	factVarCont envtable.VarID = 1
)

// TestScenarioS2CPSFactorial: a CPS-style factorial on 6 returns 720 to
// its continuation, which halts. Every intermediate multiply is itself a
// continuation closure closed over (n, outer-continuation) via the env
// table, exercising the object model, environments, and the trampoline
// together.
func TestScenarioS2CPSFactorial(t *testing.T) {
	resetRuntime()
	SetEnvTable(envtable.New(envtable.Entry{
		EnvID:  1,
		VarIDs: []envtable.VarID{factVarN, factVarCont},
	}))

	var fact *Value

	mulContFn := func(env, rand *Value) {
		n := EnvGet(env, factVarN).Int64()
		outerCont := EnvGet(env, factVarCont)
		CallOne(outerCont, MakeInt(n*rand.Int64()))
	}

	factFn := func(env, rand, cont *Value) {
		n := rand.Int64()
		if n == 0 {
			CallOne(cont, MakeInt(1))
			return
		}
		mulEnv := EnvWith(EnvWith(EnvNew(2), factVarN, MakeInt(n)), factVarCont, cont)
		mulCont := MakeClosure1(mulContFn, 1, mulEnv)
		CallTwo(fact, MakeInt(n-1), mulCont)
	}
	fact = MakeClosure2(factFn, 0, EnvNew(0))

	var result int64 = -1
	captureFn := func(env, rand *Value) {
		result = rand.Int64()
		exitFunc(0)
		panic(haltSignal{})
	}
	capture := MakeClosure1(captureFn, 0, EnvNew(0))

	rec := stubExit(t)
	SchemeStart(NewInitialThunkTwo(fact, MakeInt(6), capture))

	if !rec.called {
		t.Fatalf("expected the capture continuation to halt the program")
	}
	if result != 720 {
		t.Fatalf("factorial(6) = %d, want 720", result)
	}
}

// TestScenarioS3BulkEnvironmentAllocation: allocating many short-lived
// environments in a loop, each discarded after one use, must not leave the
// heap growing unboundedly once major GC has run. Reduced from spec's 10^5
// (see DESIGN.md) to keep the default test run fast; the loop still forces
// a bounce (and therefore a real minor+major pass) partway through.
func TestScenarioS3BulkEnvironmentAllocation(t *testing.T) {
	resetRuntime()
	oldDepth := MaxCallDepth
	MaxCallDepth = 32
	t.Cleanup(func() { MaxCallDepth = oldDepth })

	SetEnvTable(envtable.New(envtable.Entry{
		EnvID:  1,
		VarIDs: []envtable.VarID{0, 1, 2},
	}))

	var loop *Value
	loopFn := func(env, rand, cont *Value) {
		n := rand.Int64()
		if n <= 0 {
			CallOne(cont, MakeVoid())
			return
		}
		// Build and immediately discard a three-slot environment.
		scratch := EnvNew(3)
		scratch.slots[0] = MakeInt(n)
		scratch.slots[1] = MakeInt(n * 2)
		scratch.slots[2] = MakeInt(n * 3)
		_ = MakeClosure1(func(env, rand *Value) {}, 1, scratch)

		CallTwo(loop, MakeInt(n-1), cont)
	}
	loop = MakeClosure2(loopFn, 0, EnvNew(0))

	rec := stubExit(t)
	halt := NewHalt()
	SchemeStart(NewInitialThunkTwo(loop, MakeInt(2000), halt))

	if !rec.called || rec.code != 0 {
		t.Fatalf("bulk allocation loop did not complete cleanly")
	}
	if got := HeapLen(); got > 8 {
		t.Errorf("heap not bounded after final major gc: %d live objects", got)
	}
}

// TestScenarioS5SharedEnvironmentMutation: two closures share one
// environment; mutating a slot through one and reading it through the
// other observes the new value.
func TestScenarioS5SharedEnvironmentMutation(t *testing.T) {
	resetRuntime()
	env := EnvNew(1)
	env.slots[0] = MakeInt(1)

	setter := MakeClosure1(func(env, rand *Value) { EnvSet(env, 0, rand) }, 0, env)
	getter := MakeClosure1(func(env, rand *Value) {}, 0, env)

	CallOne(setter, MakeInt(42))

	if got := EnvGet(getter.env, 0).Int64(); got != 42 {
		t.Fatalf("getter observed %d through the shared environment, want 42", got)
	}
}

// TestScenarioS6NonClosureOperator: feeding a non-closure to call_one is a
// TypeError and exits non-zero.
func TestScenarioS6NonClosureOperator(t *testing.T) {
	resetRuntime()
	expectFatal(t, ErrorTypeError, func() {
		CallOne(MakeInt(5), MakeVoid())
	})
}
