package corevm

// Thunk is a closure plus its pending argument(s): a suspended call. It is
// either consumed directly in the calling Go frame (the fast path, never
// leaving the stack) or promoted to the heap on overflow and handed to the
// collector, which walks exactly its fields as GC roots.
type Thunk struct {
	closure *Value
	rand    *Value
	cont    *Value // set only when closure is arity-TWO
}

func newThunkOne(closure, rand *Value) *Thunk {
	return &Thunk{closure: closure, rand: rand}
}

func newThunkTwo(closure, rand, cont *Value) *Thunk {
	return &Thunk{closure: closure, rand: rand, cont: cont}
}

// NewInitialThunk builds the thunk SchemeStart dispatches first: the
// program's entry closure applied to its single argument.
func NewInitialThunk(closure, rand *Value) *Thunk {
	return newThunkOne(closure, rand)
}

// NewInitialThunkTwo is NewInitialThunk's arity-TWO counterpart, for entry
// points compiled as (value, continuation) procedures.
func NewInitialThunkTwo(closure, rand, cont *Value) *Thunk {
	return newThunkTwo(closure, rand, cont)
}
