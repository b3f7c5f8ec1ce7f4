package corevm

import (
	"testing"

	"github.com/bobappleyard/corevm/envtable"
)

func TestForwardingUniqueness(t *testing.T) {
	resetRuntime()

	shared := MakeInt(99)
	env := EnvNew(1)
	env.slots[0] = shared
	SetEnvTable(envtable.New(envtable.Entry{EnvID: 0, VarIDs: []envtable.VarID{0}}))

	rator := MakeClosure1(func(env, rand *Value) {}, 0, env)
	thnk := newThunkOne(rator, shared)

	gcMinor(thnk)

	if thnk.rand != thnk.closure.env.slots[0] {
		t.Fatalf("pointers that aliased before GC did not alias after: rand=%p slot=%p",
			thnk.rand, thnk.closure.env.slots[0])
	}
}

func TestNoOnStackSurvivorsAfterMinorGC(t *testing.T) {
	resetRuntime()

	env := EnvNew(1)
	env.slots[0] = MakeInt(7)
	SetEnvTable(envtable.New(envtable.Entry{EnvID: 0, VarIDs: []envtable.VarID{0}}))

	rator := MakeClosure1(func(env, rand *Value) {}, 0, env)
	thnk := newThunkOne(rator, MakeInt(1))

	gcMinor(thnk)

	if thnk.closure.OnStack() {
		t.Errorf("closure still onStack after minor gc")
	}
	if thnk.rand.OnStack() {
		t.Errorf("rand still onStack after minor gc")
	}
	if thnk.closure.env.OnStack() {
		t.Errorf("env still onStack after minor gc")
	}
	if thnk.closure.env.slots[0].OnStack() {
		t.Errorf("env slot still onStack after minor gc")
	}
}

func TestNoLiveObjectLossOnMajorGC(t *testing.T) {
	resetRuntime()

	live := EnvNew(1)
	live.slots[0] = MakeInt(1)
	dead := EnvNew(1)
	dead.slots[0] = MakeInt(2)
	_ = dead // never referenced by the thunk: must not survive the sweep

	SetEnvTable(envtable.New(envtable.Entry{EnvID: 0, VarIDs: []envtable.VarID{0}}))
	rator := MakeClosure1(func(env, rand *Value) {}, 0, live)
	thnk := newThunkOne(rator, MakeInt(3))

	gcMinor(thnk)

	// Everything reachable must survive, marked back to WHITE.
	if thnk.closure.mark != White {
		t.Errorf("surviving closure not reset to White, got %s", thnk.closure.mark)
	}
	found := false
	for _, v := range heap {
		if v == thnk.closure {
			found = true
		}
	}
	if !found {
		t.Errorf("surviving closure missing from the bookkeeping vector")
	}

	// "dead" was never reachable from thnk, so toHeap never touched it: it
	// stays a stack-side value and never occupies a bookkeeping slot.
	if dead.OnStack() != true {
		t.Errorf("unreachable environment was promoted despite never being a root")
	}
}

func TestArityMismatchOnCallTwo(t *testing.T) {
	resetRuntime()
	c1 := MakeClosure1(func(env, rand *Value) {}, 0, EnvNew(0))
	expectFatal(t, ErrorArityMismatch, func() {
		CallTwo(c1, MakeInt(1), NewHalt())
	})
}

func TestArityMismatchOnCallOne(t *testing.T) {
	resetRuntime()
	c2 := MakeClosure2(func(env, rand, cont *Value) {}, 0, EnvNew(0))
	expectFatal(t, ErrorArityMismatch, func() {
		CallOne(c2, MakeInt(1))
	})
}

func TestNonClosureOperatorIsTypeError(t *testing.T) {
	resetRuntime()
	expectFatal(t, ErrorTypeError, func() {
		CallOne(MakeInt(5), MakeVoid())
	})
}
