// Package vm implements the zetavm execution core: the instruction decoder
// and inline cache, the tree-walking interpreter, and the call protocol.
package vm

import "fmt"

// Tag identifies which variant of Value is populated.
type Tag uint8

const (
	UNDEF Tag = iota
	BOOL
	INT64
	STRING
	ARRAY
	OBJECT
	HOSTFN
	// RETADDR is internal: only the code-heap execution engine (package
	// codeheap) produces and consumes it. It never appears on the
	// tree-walking interpreter's value stack.
	RETADDR
)

func (t Tag) String() string {
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
	case RETADDR:
		return "retaddr"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Value is a tagged scalar: a small struct with one Tag field selecting
// which of the payload fields is meaningful. This replaces class-based
// downcasting with an explicit tag switch at each use site.
type Value struct {
	Tag Tag

	b   bool
	i   int64
	str *String
	arr *Array
	obj *Object
	fn  *HostFn
	ra  *retAddr
}

// retAddr is the sentinel payload carried by a RETADDR value. A nil
// Ptr marks the bottom-of-stack sentinel the top-level call protocol
// plants so the code-heap engine can detect the outermost return.
type retAddr struct {
	Ptr *int
}

// Sentinel values, shared by every caller rather than allocated fresh.
var (
	Undef = Value{Tag: UNDEF}
	True  = Value{Tag: BOOL, b: true}
	False = Value{Tag: BOOL, b: false}
)

// Int64 constructs an INT64 value.
func Int64(i int64) Value { return Value{Tag: INT64, i: i} }

// Bool constructs a BOOL value, returning the canonical True/False sentinel.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Str wraps a *String as a STRING value.
func Str(s *String) Value { return Value{Tag: STRING, str: s} }

// Arr wraps a *Array as an ARRAY value.
func Arr(a *Array) Value { return Value{Tag: ARRAY, arr: a} }

// Obj wraps a *Object as an OBJECT value.
func Obj(o *Object) Value { return Value{Tag: OBJECT, obj: o} }

// Fn wraps a *HostFn as a HOSTFN value.
func Fn(f *HostFn) Value { return Value{Tag: HOSTFN, fn: f} }

// retAddrSentinel constructs the null-payload RETADDR sentinel planted at
// the bottom of the code-heap engine's call stack.
func retAddrSentinel() Value { return Value{Tag: RETADDR, ra: &retAddr{Ptr: nil}} }

// RetAddrSentinel is the exported constructor used by package codeheap.
func RetAddrSentinel() Value { return retAddrSentinel() }

// IsRetAddrSentinel reports whether v is the null-payload bottom sentinel.
func (v Value) IsRetAddrSentinel() bool {
	return v.Tag == RETADDR && v.ra != nil && v.ra.Ptr == nil
}

// AsBool returns the BOOL payload; callers must check Tag first.
func (v Value) AsBool() bool { return v.b }

// AsInt64 returns the INT64 payload; callers must check Tag first.
func (v Value) AsInt64() int64 { return v.i }

// AsString returns the STRING payload; callers must check Tag first.
func (v Value) AsString() *String { return v.str }

// AsArray returns the ARRAY payload; callers must check Tag first.
func (v Value) AsArray() *Array { return v.arr }

// AsObject returns the OBJECT payload; callers must check Tag first.
func (v Value) AsObject() *Object { return v.obj }

// AsHostFn returns the HOSTFN payload; callers must check Tag first.
func (v Value) AsHostFn() *HostFn { return v.fn }

// IsTrue reports whether v is the canonical TRUE sentinel. if_true
// branches on this identity check alone: any non-boolean value takes the
// else branch.
func (v Value) IsTrue() bool {
	return v.Tag == BOOL && v.b
}

// Identical implements identity/bit equality, used by eq_obj: two
// OBJECT (or ARRAY) values are equal only if they are the same
// underlying allocation, never by structural comparison.
func (v Value) Identical(other Value) bool {
	if v.Tag != other.Tag {
		return false
	}
	switch v.Tag {
	case UNDEF:
		return true
	case BOOL:
		return v.b == other.b
	case INT64:
		return v.i == other.i
	case STRING:
		return v.str == other.str
	case ARRAY:
		return v.arr == other.arr
	case OBJECT:
		return v.obj == other.obj
	case HOSTFN:
		return v.fn == other.fn
	case RETADDR:
		return v.ra == other.ra
	default:
		return false
	}
}

// Inspect formats v for diagnostics (abort messages, debug logging).
func (v Value) Inspect() string {
	switch v.Tag {
	case UNDEF:
		return "undef"
	case BOOL:
		if v.b {
			return "true"
		}
		return "false"
	case INT64:
		return fmt.Sprintf("%d", v.i)
	case STRING:
		return v.str.GoString()
	case ARRAY:
		return fmt.Sprintf("<array len=%d>", v.arr.Len())
	case OBJECT:
		return fmt.Sprintf("<object fields=%d>", v.obj.NumFields())
	case HOSTFN:
		return fmt.Sprintf("<hostfn arity=%d>", v.fn.Arity())
	case RETADDR:
		return "<retaddr>"
	default:
		return "<?>"
	}
}
