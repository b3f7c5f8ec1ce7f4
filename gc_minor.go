package corevm

import "github.com/bobappleyard/corevm/internal/diag"

// pendingFix records a stack-address / address-of-pointer pair discovered
// while copying an object's interior pointers to the heap. It is drained
// after the initial roots are copied, mirroring struct ptr_toupdate_pair
// in the reference collector.
type pendingFix struct {
	src  *Value
	slot **Value
}

// minorContext holds the forwarding table and fixup worklist for a single
// minor collection. Both are torn down with the context once the pass
// completes; neither survives across collections.
type minorContext struct {
	forward map[*Value]*Value
	pending []pendingFix
}

func newMinorContext() *minorContext {
	return &minorContext{forward: make(map[*Value]*Value)}
}

func (ctx *minorContext) enqueue(src *Value, slot **Value) {
	ctx.pending = append(ctx.pending, pendingFix{src: src, slot: slot})
}

// toHeap promotes obj to the heap and returns its surviving address. A
// value already on the heap is returned unchanged; a value already seen
// this pass is returned via the forwarding table, so no source address is
// ever copied twice.
func (ctx *minorContext) toHeap(obj *Value) *Value {
	if obj == nil {
		return nil
	}
	if !obj.onStack {
		return obj
	}
	if fwd, ok := ctx.forward[obj]; ok {
		return fwd
	}

	diag.Debugf("promoting %s to heap", obj.tag)

	replica := *obj
	replica.onStack = false
	touch(&replica, "gcMinor.toHeap")
	heapObj := gcMalloc(&replica)
	ctx.forward[obj] = heapObj

	switch heapObj.tag {
	case TagClosure1, TagClosure2:
		if heapObj.env != nil && heapObj.env.onStack {
			heapObj.env = ctx.toHeap(heapObj.env)
		}
		if heapObj.env != nil {
			for _, id := range GlobalEnvTable.LiveVars(heapObj.envID) {
				idx := int(id)
				if idx < 0 || idx >= len(heapObj.env.slots) {
					continue
				}
				if s := heapObj.env.slots[idx]; s != nil && s.onStack {
					ctx.enqueue(s, &heapObj.env.slots[idx])
				}
			}
		}
	case TagEnv:
		for i, s := range heapObj.slots {
			if s != nil && s.onStack {
				heapObj.slots[i] = ctx.toHeap(s)
			}
		}
	}

	return heapObj
}

// toHeapRoot promotes one of the thunk's own fields, which unlike an env
// reached through heapObj.env above, has no closure standing between it
// and the trampoline: a bare environment here means some code handed
// call_one/call_two an environment instead of a closure, which spec.md
// says is an error, not just an unusual root. Debug builds treat it as a
// fatal invariant violation; a release build promotes what it can find
// instead of leaving a dangling stack pointer, same as the reference
// runtime's undefined-but-not-crashing behavior.
func (ctx *minorContext) toHeapRoot(obj *Value) *Value {
	if Debug && obj != nil && obj.onStack && obj.tag == TagEnv {
		fatalf(ErrorInvariantViolation, "bare environment reached as a minor GC root")
	}
	return ctx.toHeap(obj)
}

// drain resolves every pending interior-pointer fixup, promoting the
// target on first sight and rewriting its recorded slot to the forwarded
// address.
func (ctx *minorContext) drain() {
	for len(ctx.pending) > 0 {
		fix := ctx.pending[0]
		ctx.pending = ctx.pending[1:]
		*fix.slot = ctx.toHeap(fix.src)
	}
}

// gcMinor is the minor collection pass: it promotes every value reachable
// from thnk (the sole GC roots, per the trampoline's contract) from the
// stack to the heap, rewrites interior pointers, then runs the major pass
// over the resulting heap. The two phases always run together.
func gcMinor(thnk *Thunk) {
	ctx := newMinorContext()

	thnk.closure = ctx.toHeapRoot(thnk.closure)
	thnk.rand = ctx.toHeapRoot(thnk.rand)
	if thnk.closure.tag == TagClosure2 {
		thnk.cont = ctx.toHeapRoot(thnk.cont)
	}

	ctx.drain()

	gcMajor(thnk)
}
