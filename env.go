package corevm

import "github.com/bobappleyard/corevm/envtable"

// EnvNew allocates a flat environment sized to hold every variable-id the
// program uses. Every slot starts unbound (nil). A flat, indexed array
// replaces an association list so both env_get and GC scanning are
// O(|live slots|) rather than O(scope depth).
func EnvNew(size int) *Value {
	v := newHeader(TagEnv)
	v.slots = make([]*Value, size)
	touch(&v, "EnvNew")
	return &v
}

// EnvWith returns a new environment that shadows env at varID with value,
// leaving env itself untouched. Every other slot is copied by reference:
// one array copy per shadow, not a chain walked on every lookup.
func EnvWith(env *Value, varID envtable.VarID, value *Value) *Value {
	requireEnv(env, "EnvWith")
	v := newHeader(TagEnv)
	v.slots = append([]*Value(nil), env.slots...)
	v.slots[varID] = value
	touch(&v, "EnvWith")
	return &v
}

// EnvGet reads the binding for varID. A missing binding can only come from
// a compiler bug, not a recoverable source-language condition, so it is
// fatal.
func EnvGet(env *Value, varID envtable.VarID) *Value {
	requireEnv(env, "EnvGet")
	val := env.slots[varID]
	if val == nil {
		fatalf(ErrorUnboundVariable, "unbound variable-id %d", varID)
	}
	return val
}

// EnvSet writes value into varID and returns whatever was previously bound
// there, or nil if the slot had never been written.
func EnvSet(env *Value, varID envtable.VarID, value *Value) *Value {
	requireEnv(env, "EnvSet")
	prev := env.slots[varID]
	env.slots[varID] = value
	return prev
}

func requireEnv(v *Value, site string) {
	if v == nil || v.tag != TagEnv {
		fatalf(ErrorTypeError, "%s: expected an environment", site)
	}
}
