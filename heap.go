package corevm

import "github.com/bobappleyard/corevm/internal/diag"

// heap is the process-global bookkeeping vector: a weak back-reference to
// every Value gcMalloc has produced. A nil slot means that object has been
// freed; heapCompact rebuilds the vector to drop them.
var heap []*Value

func heapInit(capacity int) {
	heap = make([]*Value, 0, capacity)
}

// gcMalloc registers a freshly heap-promoted value in the bookkeeping
// vector. Every value that reaches the heap passes through here, so the
// vector never diverges from "every live heap object appears exactly
// once."
func gcMalloc(v *Value) *Value {
	if v == nil {
		fatalf(ErrorAllocationFailure, "gcMalloc: nil value")
	}
	heap = append(heap, v)
	return v
}

// heapCompact drops freed (nil) slots so the vector's size tracks live
// population rather than lifetime allocation count.
func heapCompact() {
	live := heap[:0]
	for _, v := range heap {
		if v != nil {
			live = append(live, v)
		}
	}
	heap = live
	diag.Debugf("heap compacted to %d live objects", len(heap))
}

// HeapLen reports the number of bookkeeping slots currently in use. Used
// by tests and by cmd/corevmdemo's statistics output.
func HeapLen() int { return len(heap) }
