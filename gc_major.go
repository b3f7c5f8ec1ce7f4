package corevm

import "github.com/bobappleyard/corevm/internal/diag"

// majorContext holds the grey worklist for one mark-and-sweep pass.
type majorContext struct {
	grey []*Value
}

// maybeGrey transitions a WHITE value to GREY and enqueues it. BLACK and
// GREY values are left alone: the tri-color invariant only requires that
// no BLACK object point to a WHITE one, and re-queuing an already-grey
// object would violate the "visited once" contract.
func (ctx *majorContext) maybeGrey(v *Value) {
	if v == nil || v.mark != White {
		return
	}
	v.mark = Grey
	ctx.grey = append(ctx.grey, v)
}

// markBlack marks v BLACK directly and queues its WHITE children grey, per
// variant marking rules. Closures mark their environment BLACK outright
// (its liveness is implied, since it is reached only via closures) but only
// grey the variable-ids the env table lists as live for this closure's
// environment-id, not every slot.
func (ctx *majorContext) markBlack(v *Value) {
	if v == nil {
		return
	}
	v.mark = Black
	switch v.tag {
	case TagClosure1, TagClosure2:
		if v.env == nil {
			return
		}
		v.env.mark = Black
		for _, id := range GlobalEnvTable.LiveVars(v.envID) {
			idx := int(id)
			if idx < 0 || idx >= len(v.env.slots) {
				continue
			}
			ctx.maybeGrey(v.env.slots[idx])
		}
	case TagEnv:
		// Error path, see gc_minor.go: mark conservatively since there is
		// no env table entry describing a bare environment's own slots.
		for _, s := range v.slots {
			ctx.maybeGrey(s)
		}
	}
}

// gcMajor runs one tri-color mark-and-sweep pass rooted at thnk, freeing
// every heap object it cannot prove reachable and resetting survivors to
// WHITE for the next cycle.
func gcMajor(thnk *Thunk) {
	ctx := &majorContext{}
	numMarked := 0

	ctx.markBlack(thnk.closure)
	numMarked++
	ctx.markBlack(thnk.rand)
	numMarked++
	if thnk.closure.tag == TagClosure2 {
		ctx.markBlack(thnk.cont)
		numMarked++
	}

	for len(ctx.grey) > 0 {
		next := ctx.grey[len(ctx.grey)-1]
		ctx.grey = ctx.grey[:len(ctx.grey)-1]
		ctx.markBlack(next)
		numMarked++
	}

	diag.Debugf("major gc marked %d objects", numMarked)

	numFreed := 0
	for i, obj := range heap {
		if obj == nil {
			continue
		}
		switch obj.mark {
		case White:
			if Debug && obj.onStack {
				fatalf(ErrorInvariantViolation,
					"object (tag %s, touched by %q) was on the stack during a major GC",
					obj.tag, obj.touchedBy)
			}
			heap[i] = nil
			numFreed++
		case Grey:
			fatalf(ErrorInvariantViolation, "object was marked grey at time of major GC")
		case Black:
			obj.mark = White
		}
	}

	diag.Debugf("major gc freed %d objects", numFreed)
	heapCompact()
}
