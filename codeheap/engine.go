package codeheap

import (
	"fmt"

	"github.com/smazumder05/zetavm/vm"
)

// Engine is the second-tier execution harness: a code heap, a block
// version table, and a value stack, wired together but only capable of
// running the push/ret subset Compile understands. It exists so a
// future block-versioning compiler has somewhere to plug in, not to
// replace the tree-walking interpreter today.
type Engine struct {
	Heap     *Heap
	Versions *VersionList
	Stack    *Stack
	Decoder  *vm.Decoder

	// callICs caches the inline caches CallTopLevel resolves a callee's
	// static schema fields through; built lazily since not every Engine
	// user drives a top-level call.
	callICs *callICs
}

// NewEngine wires up a fresh code heap, version table, and stack.
func NewEngine() *Engine {
	return &Engine{
		Heap:     NewHeap(),
		Versions: NewVersionList(),
		Stack:    NewStack(),
		Decoder:  vm.NewDecoder(),
	}
}

// RunBlock compiles block on first use (memoized in the version table,
// keyed by the block's own identity) and executes its words against the
// engine's stack until a ret produces a result.
func (e *Engine) RunBlock(block *vm.Object, instrs *vm.Array) (vm.Value, error) {
	bv, ok := e.Versions.Lookup(block)
	if !ok {
		compiled, err := Compile(e.Heap, e.Decoder, instrs)
		if err != nil {
			return vm.Undef, err
		}
		compiled.Block = block
		e.Versions.Install(block, compiled)
		bv = compiled
	}

	for _, w := range bv.Words {
		switch w.Op {
		case WordPush:
			if err := e.Stack.Push(w.Val); err != nil {
				return vm.Undef, err
			}
		case WordRet:
			return e.Stack.Pop()
		}
	}
	return vm.Undef, fmt.Errorf("codeheap: block fell through without ret")
}
