package vm

import "fmt"

// tagName returns the lowercase tag name used by has_tag/get_tag, matching
// the Tag constant names.
func tagName(t Tag) string {
	switch t {
	case UNDEF:
		return "undef"
	case BOOL:
		return "bool"
	case INT64:
		return "int64"
	case STRING:
		return "string"
	case ARRAY:
		return "array"
	case OBJECT:
		return "object"
	case HOSTFN:
		return "hostfn"
	default:
		return "retaddr"
	}
}

// fieldCache returns the per-call-site inline cache for a field-name op
// (get_field, set_field, has_field), keyed by instr's own object
// identity. Unlike the interpreter's other per-op caches, the field name
// here is a runtime operand rather than a static instruction field, so
// the cached slot is only reusable while the site keeps naming the same
// field; a different name rebuilds the cache from scratch.
func (in *Interpreter) fieldCache(instr *Object, name string) *InlineCache {
	if ic, ok := in.fieldSiteCaches[instr]; ok && ic.field == name {
		return ic
	}
	ic := NewInlineCache(name)
	in.fieldSiteCaches[instr] = ic
	return ic
}

// runFrame executes a's current block and every block it branches to
// until a ret instruction produces a value. Each loop iteration decodes
// one instruction, advances the cursor, and dispatches on the resulting
// opcode.
func (in *Interpreter) runFrame(a *activation) (Value, error) {
	for {
		if a.idx >= a.instrs.Len() {
			return Undef, &RunError{Kind: ErrBranchNotLast}
		}
		instrVal := a.instrs.Get(a.idx)
		if instrVal.Tag != OBJECT {
			return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "instruction slot is not an object"}
		}
		instr := instrVal.AsObject()
		a.idx++
		in.cycles++
		if in.CycleLimit != 0 && in.cycles > in.CycleLimit {
			return Undef, fmt.Errorf("vm: cycle limit %d exceeded", in.CycleLimit)
		}

		op, err := in.decoder.Decode(instr)
		if err != nil {
			return Undef, err
		}

		isLast := a.idx == a.instrs.Len()
		if op.IsBranch() && !isLast {
			return Undef, &RunError{Kind: ErrBranchNotLast}
		}

		switch op {
		case GET_LOCAL:
			idx, err := in.cachedInt64(in.icIdxGetLocal, instr)
			if err != nil {
				return Undef, err
			}
			if idx < 0 || int(idx) >= len(a.locals) {
				return Undef, &RunError{Kind: ErrIndexOOB}
			}
			a.push(a.locals[idx])

		case SET_LOCAL:
			idx, err := in.cachedInt64(in.icIdxSetLocal, instr)
			if err != nil {
				return Undef, err
			}
			if idx < 0 || int(idx) >= len(a.locals) {
				return Undef, &RunError{Kind: ErrIndexOOB}
			}
			v, err := a.pop()
			if err != nil {
				return Undef, err
			}
			a.locals[idx] = v

		case PUSH:
			hit := in.icVal.hitHint(instr)
			v, err := in.icVal.Get(instr)
			if err != nil {
				return Undef, err
			}
			in.recordCache(instr, hit)
			a.push(v)

		case POP:
			if _, err := a.pop(); err != nil {
				return Undef, err
			}

		case DUP:
			idx, err := in.cachedInt64(in.icIdxDup, instr)
			if err != nil {
				return Undef, err
			}
			if idx < 0 || int(idx) >= len(a.stack) {
				return Undef, &RunError{Kind: ErrStackUnderflow, Detail: "invalid index for dup"}
			}
			a.push(a.stack[len(a.stack)-1-int(idx)])

		case SWAP:
			b, err := a.pop()
			if err != nil {
				return Undef, err
			}
			x, err := a.pop()
			if err != nil {
				return Undef, err
			}
			a.push(b)
			a.push(x)

		case ADD_I64, SUB_I64, MUL_I64:
			b, x, err := popTwoInts(a)
			if err != nil {
				return Undef, err
			}
			var r int64
			switch op {
			case ADD_I64:
				r = x + b
			case SUB_I64:
				r = x - b
			case MUL_I64:
				r = x * b
			}
			a.push(Int64(r))

		case LT_I64, LE_I64, GT_I64, GE_I64, EQ_I64:
			b, x, err := popTwoInts(a)
			if err != nil {
				return Undef, err
			}
			var r bool
			switch op {
			case LT_I64:
				r = x < b
			case LE_I64:
				r = x <= b
			case GT_I64:
				r = x > b
			case GE_I64:
				r = x >= b
			case EQ_I64:
				r = x == b
			}
			a.push(Bool(r))

		case STR_LEN:
			v, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if v.Tag != STRING {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "str_len"}
			}
			a.push(Int64(int64(v.AsString().Len())))

		case GET_CHAR, GET_CHAR_CODE:
			idxV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			strV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if idxV.Tag != INT64 || strV.Tag != STRING {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "get_char"}
			}
			s := strV.AsString()
			idx := idxV.AsInt64()
			if idx < 0 || int(idx) >= s.Len() {
				return Undef, &RunError{Kind: ErrIndexOOB}
			}
			b := s.ByteAt(int(idx))
			if op == GET_CHAR {
				a.push(Str(CanonicalChar(b)))
			} else {
				a.push(Int64(int64(b)))
			}

		case STR_CAT:
			suffixV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			prefixV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if suffixV.Tag != STRING || prefixV.Tag != STRING {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "str_cat"}
			}
			a.push(Str(Concat(prefixV.AsString(), suffixV.AsString())))

		case EQ_STR:
			b, x, err := popTwoStrings(a)
			if err != nil {
				return Undef, err
			}
			a.push(Bool(x.Equal(b)))

		case NEW_OBJECT:
			capV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if capV.Tag != INT64 {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "new_object"}
			}
			a.push(Obj(NewObject(int(capV.AsInt64()))))

		case HAS_FIELD:
			nameV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if nameV.Tag != STRING {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "has_field"}
			}
			ov, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if ov.Tag != OBJECT {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "has_field"}
			}
			sc := in.fieldCache(instr, nameV.AsString().GoString())
			hit := sc.hitHint(ov.AsObject())
			a.push(Bool(ov.AsObject().HasField(sc.field)))
			in.recordCache(instr, hit)

		case SET_FIELD:
			val, err := a.pop()
			if err != nil {
				return Undef, err
			}
			nameV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if nameV.Tag != STRING {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "set_field"}
			}
			ov, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if ov.Tag != OBJECT {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "set_field"}
			}
			fieldName := nameV.AsString().GoString()
			if !isValidIdent(fieldName) {
				return Undef, &RunError{Kind: ErrInvalidIdent, Detail: fieldName}
			}
			sc := in.fieldCache(instr, fieldName)
			hit := sc.hitHint(ov.AsObject())
			slot := ov.AsObject().SetField(sc.field, val)
			sc.hint = slot
			in.recordCache(instr, hit)

		case GET_FIELD:
			nameV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if nameV.Tag != STRING {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "get_field"}
			}
			ov, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if ov.Tag != OBJECT {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "get_field"}
			}
			sc := in.fieldCache(instr, nameV.AsString().GoString())
			hit := sc.hitHint(ov.AsObject())
			v, err := sc.Get(ov.AsObject())
			if err != nil {
				return Undef, err
			}
			in.recordCache(instr, hit)
			a.push(v)

		case EQ_OBJ:
			b, err := a.pop()
			if err != nil {
				return Undef, err
			}
			x, err := a.pop()
			if err != nil {
				return Undef, err
			}
			a.push(Bool(x.Identical(b)))

		case NEW_ARRAY:
			lenV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if lenV.Tag != INT64 {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "new_array"}
			}
			a.push(Arr(NewArrayOfLen(int(lenV.AsInt64()))))

		case ARRAY_LEN:
			v, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if v.Tag != ARRAY {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "array_len"}
			}
			a.push(Int64(int64(v.AsArray().Len())))

		case ARRAY_PUSH:
			val, err := a.pop()
			if err != nil {
				return Undef, err
			}
			av, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if av.Tag != ARRAY {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "array_push"}
			}
			av.AsArray().Push(val)

		case GET_ELEM:
			idxV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			av, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if idxV.Tag != INT64 || av.Tag != ARRAY {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "get_elem"}
			}
			arr := av.AsArray()
			idx := idxV.AsInt64()
			if idx < 0 || int(idx) >= arr.Len() {
				return Undef, &RunError{Kind: ErrIndexOOB}
			}
			a.push(arr.Get(int(idx)))

		case SET_ELEM:
			val, err := a.pop()
			if err != nil {
				return Undef, err
			}
			idxV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			av, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if idxV.Tag != INT64 || av.Tag != ARRAY {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "set_elem"}
			}
			arr := av.AsArray()
			idx := idxV.AsInt64()
			if idx < 0 || int(idx) >= arr.Len() {
				return Undef, &RunError{Kind: ErrIndexOOB}
			}
			arr.Set(int(idx), val)

		case EQ_BOOL:
			b, err := a.pop()
			if err != nil {
				return Undef, err
			}
			x, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if b.Tag != BOOL || x.Tag != BOOL {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "eq_bool"}
			}
			a.push(Bool(x.AsBool() == b.AsBool()))

		case HAS_TAG:
			tagV, err := in.cachedStr(in.icTag, instr)
			if err != nil {
				return Undef, err
			}
			v, err := a.pop()
			if err != nil {
				return Undef, err
			}
			a.push(Bool(tagName(v.Tag) == tagV.GoString()))

		case GET_TAG:
			v, err := a.pop()
			if err != nil {
				return Undef, err
			}
			a.push(Str(NewString(tagName(v.Tag))))

		case JUMP:
			to, err := in.cachedObj(in.icTo, instr)
			if err != nil {
				return Undef, err
			}
			if err := in.enterBlock(a, to); err != nil {
				return Undef, err
			}

		case IF_TRUE:
			thenBlk, err := in.cachedObj(in.icThen, instr)
			if err != nil {
				return Undef, err
			}
			elseBlk, err := in.cachedObj(in.icElse, instr)
			if err != nil {
				return Undef, err
			}
			cond, err := a.pop()
			if err != nil {
				return Undef, err
			}
			target := elseBlk
			if cond.IsTrue() {
				target = thenBlk
			}
			if err := in.enterBlock(a, target); err != nil {
				return Undef, err
			}

		case CALL:
			numArgs, err := in.cachedInt64(in.icNumArgs, instr)
			if err != nil {
				return Undef, err
			}
			retTo, err := in.cachedObj(in.icRetTo, instr)
			if err != nil {
				return Undef, err
			}
			callee, err := a.pop()
			if err != nil {
				return Undef, err
			}
			args := make([]Value, numArgs)
			for i := int(numArgs) - 1; i >= 0; i-- {
				v, err := a.pop()
				if err != nil {
					return Undef, err
				}
				args[i] = v
			}
			result, err := in.CallValue(callee, args, instr)
			if err != nil {
				if re, ok := err.(*RunError); ok && re.Kind == ErrArityMismatch && re.Src == nil {
					err = re.WithSrc(in.sourcePos(instr))
				}
				return Undef, err
			}
			a.push(result)
			if err := in.enterBlock(a, retTo); err != nil {
				return Undef, err
			}

		case RET:
			return a.pop()

		case IMPORT:
			nameV, err := a.pop()
			if err != nil {
				return Undef, err
			}
			if nameV.Tag != STRING {
				return Undef, &RunError{Kind: ErrTypeMismatch, Detail: "import"}
			}
			if in.Importer == nil {
				return Undef, &RunError{Kind: ErrMissingField, Detail: "import: no importer configured"}
			}
			pkg, err := in.Importer.Import(nameV.AsString().GoString())
			if err != nil {
				return Undef, err
			}
			a.push(Obj(pkg))

		case ABORT:
			v, err := a.pop()
			if err != nil {
				return Undef, err
			}
			msg := v.Inspect()
			if pos := in.sourcePos(instr); pos != nil {
				msg = pos.String() + " - " + msg
			}
			fmt.Println(msg)
			in.Log.Error("abort", "value", v.Inspect())
			in.Exit(-1)
			return Undef, nil

		default:
			return Undef, &RunError{Kind: ErrUnknownOp}
		}
	}
}

func popTwoInts(a *activation) (b, x int64, err error) {
	bv, err := a.pop()
	if err != nil {
		return 0, 0, err
	}
	xv, err := a.pop()
	if err != nil {
		return 0, 0, err
	}
	if bv.Tag != INT64 || xv.Tag != INT64 {
		return 0, 0, &RunError{Kind: ErrTypeMismatch, Detail: "expected int64 operands"}
	}
	return bv.AsInt64(), xv.AsInt64(), nil
}

func popTwoStrings(a *activation) (b, x *String, err error) {
	bv, err := a.pop()
	if err != nil {
		return nil, nil, err
	}
	xv, err := a.pop()
	if err != nil {
		return nil, nil, err
	}
	if bv.Tag != STRING || xv.Tag != STRING {
		return nil, nil, &RunError{Kind: ErrTypeMismatch, Detail: "expected string operands"}
	}
	return bv.AsString(), xv.AsString(), nil
}
