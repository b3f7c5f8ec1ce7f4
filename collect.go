package corevm

import "github.com/bobappleyard/corevm/envtable"

// collectEnvID is a reserved environment-id used only by Collect's
// synthetic root, never assigned by a real compiler.
const collectEnvID envtable.EnvID = -1

// Collect forces one minor-then-major collection over values, as if they
// were the slots of a throwaway environment reachable from a synthetic
// arity-ONE closure, and returns their surviving (possibly forwarded)
// addresses in the same order. It exists for tooling, namely
// cmd/corevmshell's "gc" command, that wants to exercise the collector
// outside of an actual program run. Emitted code never calls it: its roots
// are the in-flight thunk (§4.3.1's "the roots... are exactly the fields
// of the in-flight thunk"), not an ad hoc list handed in from outside.
func Collect(values []*Value) []*Value {
	env := EnvNew(len(values))
	ids := make([]envtable.VarID, len(values))
	for i, v := range values {
		env.slots[i] = v
		ids[i] = envtable.VarID(i)
	}

	if GlobalEnvTable == nil {
		GlobalEnvTable = envtable.Table{}
	}
	prevEntry, hadEntry := GlobalEnvTable[collectEnvID]
	GlobalEnvTable[collectEnvID] = ids
	defer func() {
		if hadEntry {
			GlobalEnvTable[collectEnvID] = prevEntry
		} else {
			delete(GlobalEnvTable, collectEnvID)
		}
	}()

	closure := MakeClosure1(func(env, rand *Value) {}, collectEnvID, env)
	thnk := newThunkOne(closure, MakeVoid())
	gcMinor(thnk)

	promoted := make([]*Value, len(values))
	copy(promoted, thnk.closure.env.slots)
	return promoted
}
