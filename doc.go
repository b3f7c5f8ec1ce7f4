// corevm is the runtime core linked into code emitted by a compiler for a
// small first-class-functions, mutable-environment Lisp dialect. It is not
// a Lisp interpreter: it has no reader, no evaluator, no primitive
// procedures for the source language. It is the substrate compiled code
// runs on: the object model values live in, the calling convention that
// makes tail calls safe, and the two-phase collector that reclaims them.
//
// # Object model
//
// Every runtime datum, closure, environment, integer, string, or the void
// singleton, is a *Value. A Value carries a tag discriminating its
// variant and a small header (mark color, on-stack flag) the collector
// inspects directly rather than through interface dispatch. See value.go
// and env.go.
//
// # Calling convention
//
// Compiled procedures never return a value to their Go caller; they either
// call CallOne/CallTwo to invoke the next procedure in tail position, or
// invoke the halt continuation to end the program. CallOne and CallTwo
// call straight through while the call-depth guard has room, preserving
// ordinary program order; once the guard trips they promote the pending
// call to a heap thunk, run the collector, and bounce control back to
// SchemeStart's dispatch loop. See trampoline.go.
//
// # Garbage collection
//
// A bounce triggers exactly one collection: a minor pass promotes every
// value reachable from the pending thunk from the stack to the heap
// (gc_minor.go), followed by a major tri-color mark-and-sweep over the
// heap's bookkeeping vector (gc_major.go). The two phases always run as a
// pair.
//
// # What this package is not
//
// The lexer, parser, CPS/closure-conversion passes, and code generator for
// the source language are a separate, out-of-scope compiler. This package
// only defines the contract that compiler must emit against: value
// constructors, call_one/call_two, environment operations, and the
// envtable.Table describing which variable-ids each environment shape
// carries.
package corevm
