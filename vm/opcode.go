package vm

import "fmt"

// Opcode is the internal enumerated identifier obtained by decoding an
// instruction object's op string.
type Opcode uint8

const (
	opInvalid Opcode = iota

	// Locals
	GET_LOCAL
	SET_LOCAL

	// Stack
	PUSH
	POP
	DUP
	SWAP

	// Int64 arith/cmp
	ADD_I64
	SUB_I64
	MUL_I64
	LT_I64
	LE_I64
	GT_I64
	GE_I64
	EQ_I64

	// String
	STR_LEN
	GET_CHAR
	GET_CHAR_CODE
	STR_CAT
	EQ_STR

	// Object
	NEW_OBJECT
	HAS_FIELD
	SET_FIELD
	GET_FIELD
	EQ_OBJ

	// Array
	NEW_ARRAY
	ARRAY_LEN
	ARRAY_PUSH
	GET_ELEM
	SET_ELEM

	// Misc
	EQ_BOOL
	HAS_TAG
	GET_TAG

	// Control
	JUMP
	IF_TRUE
	CALL
	RET

	// VM
	IMPORT
	ABORT
)

func (op Opcode) String() string {
	switch op {
	case GET_LOCAL:
		return "get_local"
	case SET_LOCAL:
		return "set_local"
	case PUSH:
		return "push"
	case POP:
		return "pop"
	case DUP:
		return "dup"
	case SWAP:
		return "swap"
	case ADD_I64:
		return "add_i64"
	case SUB_I64:
		return "sub_i64"
	case MUL_I64:
		return "mul_i64"
	case LT_I64:
		return "lt_i64"
	case LE_I64:
		return "le_i64"
	case GT_I64:
		return "gt_i64"
	case GE_I64:
		return "ge_i64"
	case EQ_I64:
		return "eq_i64"
	case STR_LEN:
		return "str_len"
	case GET_CHAR:
		return "get_char"
	case GET_CHAR_CODE:
		return "get_char_code"
	case STR_CAT:
		return "str_cat"
	case EQ_STR:
		return "eq_str"
	case NEW_OBJECT:
		return "new_object"
	case HAS_FIELD:
		return "has_field"
	case SET_FIELD:
		return "set_field"
	case GET_FIELD:
		return "get_field"
	case EQ_OBJ:
		return "eq_obj"
	case NEW_ARRAY:
		return "new_array"
	case ARRAY_LEN:
		return "array_len"
	case ARRAY_PUSH:
		return "array_push"
	case GET_ELEM:
		return "get_elem"
	case SET_ELEM:
		return "set_elem"
	case EQ_BOOL:
		return "eq_bool"
	case HAS_TAG:
		return "has_tag"
	case GET_TAG:
		return "get_tag"
	case JUMP:
		return "jump"
	case IF_TRUE:
		return "if_true"
	case CALL:
		return "call"
	case RET:
		return "ret"
	case IMPORT:
		return "import"
	case ABORT:
		return "abort"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(op))
	}
}

// IsBranch reports whether op may only appear as the final instruction of
// a basic block: jump, if_true, call, ret.
func (op Opcode) IsBranch() bool {
	switch op {
	case JUMP, IF_TRUE, CALL, RET:
		return true
	default:
		return false
	}
}

// opFromString maps an instruction's op field to an Opcode. "pop" maps
// to POP with exactly one arm; swap and get_tag are mapped alongside
// their counterparts dup and has_tag.
var opStrings = map[string]Opcode{
	"get_local":     GET_LOCAL,
	"set_local":     SET_LOCAL,
	"push":          PUSH,
	"pop":           POP,
	"dup":           DUP,
	"swap":          SWAP,
	"add_i64":       ADD_I64,
	"sub_i64":       SUB_I64,
	"mul_i64":       MUL_I64,
	"lt_i64":        LT_I64,
	"le_i64":        LE_I64,
	"gt_i64":        GT_I64,
	"ge_i64":        GE_I64,
	"eq_i64":        EQ_I64,
	"str_len":       STR_LEN,
	"get_char":      GET_CHAR,
	"get_char_code": GET_CHAR_CODE,
	"str_cat":       STR_CAT,
	"eq_str":        EQ_STR,
	"new_object":    NEW_OBJECT,
	"has_field":     HAS_FIELD,
	"set_field":     SET_FIELD,
	"get_field":     GET_FIELD,
	"eq_obj":        EQ_OBJ,
	"new_array":     NEW_ARRAY,
	"array_len":     ARRAY_LEN,
	"array_push":    ARRAY_PUSH,
	"get_elem":      GET_ELEM,
	"set_elem":      SET_ELEM,
	"eq_bool":       EQ_BOOL,
	"has_tag":       HAS_TAG,
	"get_tag":       GET_TAG,
	"jump":          JUMP,
	"if_true":       IF_TRUE,
	"call":          CALL,
	"ret":           RET,
	"import":        IMPORT,
	"abort":         ABORT,
}

func opFromString(s string) (Opcode, bool) {
	op, ok := opStrings[s]
	return op, ok
}
