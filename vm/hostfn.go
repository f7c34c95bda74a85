package vm

// Fn0..Fn3 are the arity-specialized host-function entry points: each
// known parameter count from 0 to 3 gets its own typed signature rather
// than a variadic []Value, avoiding a slice allocation on every call for
// the overwhelmingly common small-arity case.
type (
	Fn0 func() Value
	Fn1 func(a0 Value) Value
	Fn2 func(a0, a1 Value) Value
	Fn3 func(a0, a1, a2 Value) Value
)

// HostFn is an external callable of known arity 0–3.
type HostFn struct {
	name  string
	arity int
	fn0   Fn0
	fn1   Fn1
	fn2   Fn2
	fn3   Fn3
}

// NewHostFn0..NewHostFn3 wrap an arity-specialized Go function as a
// HostFn. There is deliberately no constructor for larger arities.
func NewHostFn0(name string, fn Fn0) *HostFn { return &HostFn{name: name, arity: 0, fn0: fn} }
func NewHostFn1(name string, fn Fn1) *HostFn { return &HostFn{name: name, arity: 1, fn1: fn} }
func NewHostFn2(name string, fn Fn2) *HostFn { return &HostFn{name: name, arity: 2, fn2: fn} }
func NewHostFn3(name string, fn Fn3) *HostFn { return &HostFn{name: name, arity: 3, fn3: fn} }

// Name returns the diagnostic name of the function.
func (h *HostFn) Name() string { return h.name }

// Arity returns the function's fixed parameter count (0-3).
func (h *HostFn) Arity() int { return h.arity }

// Invoke dispatches to the arity-specialized entry point. Callers (the
// call-dispatch code in interp.go) must have already validated
// len(args) == h.Arity().
func (h *HostFn) Invoke(args []Value) Value {
	switch h.arity {
	case 0:
		return h.fn0()
	case 1:
		return h.fn1(args[0])
	case 2:
		return h.fn2(args[0], args[1])
	case 3:
		return h.fn3(args[0], args[1], args[2])
	default:
		panic("HostFn: unreachable arity")
	}
}
