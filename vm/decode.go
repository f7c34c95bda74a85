package vm

// Decoder maps instruction objects to opcodes. The opcode cache is keyed
// by instruction object identity and never evicted — entries live for
// the interpreter's lifetime. This is safe because instruction objects
// are immortal: Go's garbage collector never recycles a live pointer's
// identity, so the same pointer never means a different instruction.
type Decoder struct {
	opCache map[*Object]Opcode
	opField *InlineCache
}

// NewDecoder creates a Decoder with its own op-field inline cache and
// identity-keyed opcode cache.
func NewDecoder() *Decoder {
	return &Decoder{
		opCache: make(map[*Object]Opcode),
		opField: NewInlineCache("op"),
	}
}

// Decode returns the Opcode for instr, using the memoized result on a
// cache hit and otherwise resolving the op string via the inline cache
// and recording the result. Identical instruction objects always map to
// the same opcode.
func (d *Decoder) Decode(instr *Object) (Opcode, error) {
	if op, ok := d.opCache[instr]; ok {
		return op, nil
	}
	opStr, err := d.opField.GetStr(instr)
	if err != nil {
		return 0, err
	}
	op, ok := opFromString(opStr.GoString())
	if !ok {
		return 0, &RunError{Kind: ErrUnknownOp, Detail: opStr.GoString()}
	}
	d.opCache[instr] = op
	return op, nil
}
