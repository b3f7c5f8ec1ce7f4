// Package envtable is the wire contract between the (out-of-scope) compiler
// and the runtime: for every environment shape the compiler ever emits, it
// lists the variable-ids a closure over that shape may actually reference.
// The collector consults it during promotion and marking so it can walk
// only live slots instead of an entire environment array.
package envtable

// EnvID identifies one compile-time environment shape.
type EnvID int

// VarID is a dense, program-wide, compiler-assigned binding identifier.
type VarID int

// Entry lists the variable-ids a closure over EnvID may reference.
type Entry struct {
	EnvID  EnvID
	VarIDs []VarID
}

// Table is the compiler-emitted global_env_table. It is built once, at
// program startup, from the compiler's own analysis. The runtime's only
// write to it is corevm.Collect, which adds an entry under a reserved
// environment-id and removes it again before returning.
type Table map[EnvID][]VarID

// New builds a Table from a list of entries, the shape a code generator
// would naturally emit as a literal table alongside the compiled program.
func New(entries ...Entry) Table {
	t := make(Table, len(entries))
	for _, e := range entries {
		t[e.EnvID] = e.VarIDs
	}
	return t
}

// LiveVars reports the variable-ids live for envID. A lookup miss returns
// nil ("no interior pointers") rather than an error: a closure may close
// over an environment shape the compiler never had to record slots for.
func (t Table) LiveVars(envID EnvID) []VarID {
	return t[envID]
}
