package vm

import "fmt"

// ErrKind enumerates the run-error kinds. All but abort are surfaced as
// a *RunError returned up through the call chain to the embedder-facing
// call boundary (Interpreter.CallExportFn), which also recovers from any
// unexpected panic as a defensive backstop.
type ErrKind uint8

const (
	ErrMissingField ErrKind = iota
	ErrUnknownOp
	ErrStackUnderflow
	ErrTypeMismatch
	ErrIndexOOB
	ErrInvalidIdent
	ErrArityMismatch
	ErrInvalidCallee
	ErrBranchNotLast
	ErrEmptyTarget
	ErrUnhandledOp
)

func (k ErrKind) String() string {
	switch k {
	case ErrMissingField:
		return "MissingField"
	case ErrUnknownOp:
		return "UnknownOp"
	case ErrStackUnderflow:
		return "StackUnderflow"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrIndexOOB:
		return "IndexOOB"
	case ErrInvalidIdent:
		return "InvalidIdent"
	case ErrArityMismatch:
		return "ArityMismatch"
	case ErrInvalidCallee:
		return "InvalidCallee"
	case ErrBranchNotLast:
		return "BranchNotLast"
	case ErrEmptyTarget:
		return "EmptyTarget"
	case ErrUnhandledOp:
		return "UnhandledOp"
	default:
		return "UnknownError"
	}
}

// SourcePos formats a source position object as "name@line:col".
type SourcePos struct {
	Name string
	Line int64
	Col  int64
}

func (p *SourcePos) String() string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%s@%d:%d", p.Name, p.Line, p.Col)
}

// RunError is the single run-error channel raised by the interpreter.
type RunError struct {
	Kind     ErrKind
	Detail   string
	Got      int // for ArityMismatch
	Want     int // for ArityMismatch
	Src      *SourcePos
}

func (e *RunError) Error() string {
	msg := e.Kind.String()
	if e.Kind == ErrArityMismatch {
		msg = fmt.Sprintf("%s(got=%d, want=%d)", msg, e.Got, e.Want)
	} else if e.Detail != "" {
		msg = fmt.Sprintf("%s(%s)", msg, e.Detail)
	}
	if e.Src != nil {
		msg = fmt.Sprintf("%s at %s", msg, e.Src.String())
	}
	return msg
}

// WithSrc returns a copy of e with Src set, used when a branch/call site
// carries a src_pos the caller wants attached, as call does for an
// arity mismatch against a host function.
func (e *RunError) WithSrc(src *SourcePos) *RunError {
	cp := *e
	cp.Src = src
	return &cp
}

