package codeheap

import "github.com/smazumder05/zetavm/vm"

// WordOp is the tag of a compiled word record. The engine today only
// understands two: a literal push and a return.
type WordOp uint8

const (
	WordPush WordOp = iota
	WordRet
)

// Word is one compiled unit in a BlockVersion. It stands in for a
// native machine-code instruction until a real code generator replaces
// it. Compile keeps these Go-native records in the BlockVersion; it
// reserves code-heap space for them but does not encode them into it.
type Word struct {
	Op  WordOp
	Val vm.Value // valid when Op == WordPush
}

// UnsupportedOpError is returned by Compile when a block contains an
// instruction this engine cannot yet lower.
type UnsupportedOpError struct {
	Op string
}

func (e *UnsupportedOpError) Error() string {
	return "codeheap: cannot compile op " + e.Op
}

// Compile lowers block's instruction list to a Word sequence and
// reserves space for it in heap. Only push and ret instructions are
// supported; anything else aborts the compile with UnsupportedOpError,
// matching this tier's status as a scaffold for a future compiler
// rather than a complete second execution engine.
func Compile(heap *Heap, decoder *vm.Decoder, instrs *vm.Array) (*BlockVersion, error) {
	words := make([]Word, 0, instrs.Len())
	for i := 0; i < instrs.Len(); i++ {
		iv := instrs.Get(i)
		if iv.Tag != vm.OBJECT {
			return nil, &UnsupportedOpError{Op: "<non-object instruction>"}
		}
		instr := iv.AsObject()
		op, err := decoder.Decode(instr)
		if err != nil {
			return nil, err
		}
		switch op {
		case vm.PUSH:
			val, _, ok := instr.Lookup("val")
			if !ok {
				return nil, &UnsupportedOpError{Op: "push (missing val)"}
			}
			words = append(words, Word{Op: WordPush, Val: val})
		case vm.RET:
			words = append(words, Word{Op: WordRet})
		default:
			return nil, &UnsupportedOpError{Op: op.String()}
		}
	}

	// Reserve the word-count's worth of space in the code heap so the
	// heap's Used() accounting reflects every compiled block, even
	// though the words themselves are held in Go-native form above
	// rather than encoded into the reserved bytes yet.
	if _, err := heap.Alloc(len(words) * wordSize); err != nil {
		return nil, err
	}

	return &BlockVersion{Words: words}, nil
}

// wordSize is the nominal on-heap footprint of one compiled word, used
// only for heap space accounting until words are actually encoded.
const wordSize = 16
