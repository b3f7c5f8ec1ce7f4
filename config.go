package corevm

import (
	"github.com/bobappleyard/corevm/envtable"
	"github.com/bobappleyard/corevm/internal/diag"
)

// Debug turns on debug-only behavior: per-value provenance tracking,
// verbose GC tracing, and promoting an on-stack-during-major-gc invariant
// violation from undefined behavior to a fatal assertion. Off by default,
// matching a release build.
var Debug = false

// SetDebug is the Go-API equivalent of a debug build flag: this runtime
// has no CLI surface of its own (§6), so configuration is a function call
// made by whatever links against it, not an environment variable or flag
// parsed here.
func SetDebug(on bool) {
	Debug = on
	diag.SetDebug(on)
}

// InitialHeapCapacity sizes the bookkeeping vector heapInit allocates when
// SchemeStart runs. The default of 100 matches the reference runtime's
// initial gc_global_data.nodes capacity; a host that knows it is about to
// run an allocation-heavy program can raise this before calling
// SchemeStart so the vector is not reallocated as it grows. It has no
// effect on compaction, which runs after every major GC.
var InitialHeapCapacity = 100

// GlobalEnvTable is the compiler-emitted table describing, for every
// environment-id, the variable-ids a closure over it may reference. It is
// consulted only by the collector and must be installed once, before
// SchemeStart runs, via SetEnvTable.
var GlobalEnvTable envtable.Table

// SetEnvTable installs the program-wide environment table. Called once,
// at startup, by the code a compiler would emit alongside the compiled
// procedures themselves.
func SetEnvTable(t envtable.Table) {
	GlobalEnvTable = t
}
