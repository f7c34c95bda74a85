package codeheap

import (
	"fmt"

	"github.com/smazumder05/zetavm/vm"
)

// callICs bundles the inline caches CallTopLevel resolves fn's static
// schema through, built once per Engine rather than once per call.
type callICs struct {
	numParams *vm.InlineCache
	numLocals *vm.InlineCache
	entry     *vm.InlineCache
	instrs    *vm.InlineCache
}

func newCallICs() *callICs {
	return &callICs{
		numParams: vm.NewInlineCache("num_params"),
		numLocals: vm.NewInlineCache("num_locals"),
		entry:     vm.NewInlineCache("entry"),
		instrs:    vm.NewInlineCache("instrs"),
	}
}

// CallTopLevel performs the call-protocol setup a top-level invocation
// needs before the engine can run fn's entry block: it plants a caller
// placeholder and a sentinel return address, sets basePtr one word
// below them, reserves num_locals slots above basePtr, copies args into
// the leading slots, then runs the entry block. On return — success or
// error — the stack pointer is restored to stackBottom, since this tier
// has no frame-unwind bookkeeping of its own to rely on.
func (e *Engine) CallTopLevel(fn *vm.Object, args []vm.Value) (vm.Value, error) {
	if e.callICs == nil {
		e.callICs = newCallICs()
	}
	ics := e.callICs

	numParams, err := ics.numParams.GetInt64(fn)
	if err != nil {
		return vm.Undef, err
	}
	if int64(len(args)) != numParams {
		return vm.Undef, fmt.Errorf("codeheap: arity mismatch, got %d want %d", len(args), numParams)
	}
	numLocals, err := ics.numLocals.GetInt64(fn)
	if err != nil {
		return vm.Undef, err
	}
	entry, err := ics.entry.GetObj(fn)
	if err != nil {
		return vm.Undef, err
	}
	instrs, err := ics.instrs.GetArr(entry)
	if err != nil {
		return vm.Undef, err
	}

	defer func() { e.Stack.stackPtr = e.Stack.stackBottom }()

	if err := e.Stack.Push(vm.Int64(0)); err != nil { // caller placeholder
		return vm.Undef, err
	}
	if err := e.Stack.Push(vm.RetAddrSentinel()); err != nil {
		return vm.Undef, err
	}
	e.Stack.basePtr = e.Stack.stackPtr - 1

	for i := int64(0); i < numLocals; i++ {
		v := vm.Undef
		if int(i) < len(args) {
			v = args[i]
		}
		if err := e.Stack.Push(v); err != nil {
			return vm.Undef, err
		}
	}

	return e.RunBlock(entry, instrs)
}
