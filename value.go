package corevm

import (
	"fmt"
	"runtime"

	"github.com/bobappleyard/corevm/envtable"
)

// Tag discriminates the variant a Value header carries.
type Tag uint8

const (
	TagClosure1 Tag = iota
	TagClosure2
	TagEnv
	TagInt
	TagString
	TagVoid
)

func (t Tag) String() string {
	switch t {
	case TagClosure1:
		return "closure/1"
	case TagClosure2:
		return "closure/2"
	case TagEnv:
		return "env"
	case TagInt:
		return "int"
	case TagString:
		return "string"
	case TagVoid:
		return "void"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

// Mark is the tri-color state a Value carries during a major GC pass.
type Mark uint8

const (
	White Mark = iota
	Grey
	Black
)

func (m Mark) String() string {
	switch m {
	case White:
		return "white"
	case Grey:
		return "grey"
	case Black:
		return "black"
	default:
		return "mark(?)"
	}
}

// Func1 is the code pointer signature for an arity-ONE closure: the value
// argument plus the closure's own captured environment. It never returns a
// value to its Go caller; it tail-calls onward via CallOne/CallTwo or
// terminates the process through the halt continuation.
type Func1 func(env *Value, rand *Value)

// Func2 is the code pointer signature for an arity-TWO closure: value plus
// continuation, the shape every CPS-converted procedure compiles to.
type Func2 func(env *Value, rand, cont *Value)

// Value is the runtime's single tagged representation for every datum:
// closures, environments, integers, strings, and the void singleton all
// share this struct rather than going through interface dispatch, so the
// collector can inspect tag, mark and onStack directly instead of type
// switching through a Go interface.
type Value struct {
	tag     Tag
	mark    Mark
	onStack bool

	touchedBy string // debug-only provenance, empty unless Debug is set

	// TagClosure1 / TagClosure2
	fn1   Func1
	fn2   Func2
	envID envtable.EnvID
	env   *Value // TagEnv

	// TagEnv
	slots []*Value

	// TagInt
	intVal int64

	// TagString
	strVal []byte
}

// Tag reports the variant discriminator of v.
func (v *Value) Tag() Tag { return v.tag }

// OnStack reports whether v has not yet been promoted to the heap.
func (v *Value) OnStack() bool { return v.onStack }

// TouchedBy returns the debug provenance string recorded the last time v
// was constructed or promoted, or "" if Debug was never enabled.
func (v *Value) TouchedBy() string { return v.touchedBy }

func touch(v *Value, site string) {
	if !Debug {
		return
	}
	if pc, _, line, ok := runtime.Caller(2); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			v.touchedBy = fmt.Sprintf("%s (%s:%d)", site, fn.Name(), line)
			return
		}
	}
	v.touchedBy = site
}

func newHeader(tag Tag) Value {
	return Value{tag: tag, mark: White, onStack: true}
}

// MakeInt constructs a 64-bit signed integer value.
func MakeInt(n int64) *Value {
	v := newHeader(TagInt)
	v.intVal = n
	touch(&v, "MakeInt")
	return &v
}

// Int64 returns the scalar carried by v. It is fatal to call on any other
// variant, which only a compiler bug can produce.
func (v *Value) Int64() int64 {
	if v.tag != TagInt {
		fatalf(ErrorTypeError, "Int64 called on a %s value", v.tag)
	}
	return v.intVal
}

// MakeString constructs an immutable string value over a private copy of
// bytes.
func MakeString(bytes []byte) *Value {
	v := newHeader(TagString)
	v.strVal = append([]byte(nil), bytes...)
	touch(&v, "MakeString")
	return &v
}

// Bytes returns the contents of a string value.
func (v *Value) Bytes() []byte {
	if v.tag != TagString {
		fatalf(ErrorTypeError, "Bytes called on a %s value", v.tag)
	}
	return v.strVal
}

var voidSingleton = &Value{tag: TagVoid, mark: White, onStack: false}

// MakeVoid returns the process-wide void singleton. It never allocates and
// every reference to void, before or after a GC, is this same pointer.
func MakeVoid() *Value { return voidSingleton }

// MakeClosure1 constructs an arity-ONE closure over fn, closed over env
// and tagged with the compile-time environment id the collector uses to
// find its live slots.
func MakeClosure1(fn Func1, envID envtable.EnvID, env *Value) *Value {
	requireEnv(env, "MakeClosure1")
	v := newHeader(TagClosure1)
	v.fn1 = fn
	v.envID = envID
	v.env = env
	touch(&v, "MakeClosure1")
	return &v
}

// MakeClosure2 constructs an arity-TWO (value, continuation) closure.
func MakeClosure2(fn Func2, envID envtable.EnvID, env *Value) *Value {
	requireEnv(env, "MakeClosure2")
	v := newHeader(TagClosure2)
	v.fn2 = fn
	v.envID = envID
	v.env = env
	touch(&v, "MakeClosure2")
	return &v
}
