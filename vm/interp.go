package vm

import (
	"fmt"
	"os"

	"github.com/smazumder05/zetavm/obslog"
)

// panicMessage renders an arbitrary recovered panic value as a string.
func panicMessage(r interface{}) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(r)
}

// Importer resolves a package by name for the import opcode. It is
// implemented by package image; vm depends only on this narrow interface
// to avoid an import cycle.
type Importer interface {
	Import(name string) (*Object, error)
}

// ProfileSink receives per-call-site and per-inline-cache observations.
// Implemented by package profile; entirely optional (a nil sink is a
// no-op), since profiling is pure observability.
type ProfileSink interface {
	RecordCall(site *Object)
	RecordCacheAccess(site *Object, hit bool)
	AddCycles(site *Object, n uint64)
}

// activation is one in-flight function call: a value stack, a locals
// vector, and a cursor into the current basic block.
type activation struct {
	locals []Value
	stack  []Value
	block  *Object
	instrs *Array
	idx    int
}

func (a *activation) push(v Value) { a.stack = append(a.stack, v) }

func (a *activation) pop() (Value, error) {
	n := len(a.stack)
	if n == 0 {
		return Undef, &RunError{Kind: ErrStackUnderflow}
	}
	v := a.stack[n-1]
	a.stack = a.stack[:n-1]
	return v, nil
}

func (a *activation) top() (Value, error) {
	if len(a.stack) == 0 {
		return Undef, &RunError{Kind: ErrStackUnderflow}
	}
	return a.stack[len(a.stack)-1], nil
}

// Interpreter is the tree-walking execution engine plus the decoder and
// inline-cache front end it drives. One Interpreter is created per
// embedding process and reused for its lifetime, since its caches are
// process-wide and never evicted.
type Interpreter struct {
	decoder *Decoder

	// Field accessors. Each is its own inline cache scoped to one field
	// name, holding a single hint slot with a confirm-then-rescan
	// fallback — there is no receiver-class polymorphism here to
	// escalate a cache against, so one slot per field is enough.
	icNumParams *InlineCache
	icNumLocals *InlineCache
	icEntry     *InlineCache
	icInstrs    *InlineCache

	// get_local, set_local, and dup each read a static "idx" field, but
	// each keeps its own cache: sharing one hint slot across three
	// distinct opcode occurrences would thrash it every time execution
	// alternates between them, defeating the one-hint-per-call-site
	// contract the rest of these caches rely on.
	icIdxGetLocal *InlineCache
	icIdxSetLocal *InlineCache
	icIdxDup      *InlineCache

	icVal *InlineCache
	icTo        *InlineCache
	icThen      *InlineCache
	icElse      *InlineCache
	icRetTo     *InlineCache
	icNumArgs   *InlineCache
	icTag       *InlineCache
	icSrcPos    *InlineCache
	icSrcName   *InlineCache
	icLineNo    *InlineCache
	icColNo     *InlineCache

	cycles uint64

	// CycleLimit aborts the current run once the interpreter's
	// process-wide cycle counter exceeds it. Zero means unlimited. This
	// is an embedder safety valve, not a language-level run error.
	CycleLimit uint64

	// fieldSiteCaches holds one inline cache per field-access instruction
	// (get_field/set_field/has_field), keyed by that instruction's
	// own object identity so two call sites naming the same field never
	// share a hint slot. The field name itself is a runtime operand, not
	// part of the instruction's static schema, so the cache is rebuilt
	// whenever the popped name stops matching — see fieldCache.
	fieldSiteCaches map[*Object]*InlineCache

	Importer Importer
	Profiler ProfileSink
	Log      obslog.Logger

	// Exit is called by the abort opcode, which writes its argument
	// (prefixed by the instruction's src_pos, if any) to stdout, logs it,
	// and terminates the process directly rather than returning
	// a run error. Overridable so tests can observe an abort without
	// killing the test binary.
	Exit func(code int)
}

// NewInterpreter creates an Interpreter with fresh field caches. importer
// may be nil if the program never executes `import`.
func NewInterpreter(importer Importer) *Interpreter {
	return &Interpreter{
		decoder:         NewDecoder(),
		fieldSiteCaches: make(map[*Object]*InlineCache),
		icNumParams:     NewInlineCache("num_params"),
		icNumLocals:     NewInlineCache("num_locals"),
		icEntry:         NewInlineCache("entry"),
		icInstrs:        NewInlineCache("instrs"),
		icIdxGetLocal:   NewInlineCache("idx"),
		icIdxSetLocal:   NewInlineCache("idx"),
		icIdxDup:        NewInlineCache("idx"),
		icVal:           NewInlineCache("val"),
		icTo:            NewInlineCache("to"),
		icThen:          NewInlineCache("then"),
		icElse:          NewInlineCache("else"),
		icRetTo:         NewInlineCache("ret_to"),
		icNumArgs:       NewInlineCache("num_args"),
		icTag:           NewInlineCache("tag"),
		icSrcPos:        NewInlineCache("src_pos"),
		icSrcName:       NewInlineCache("src_name"),
		icLineNo:        NewInlineCache("line_no"),
		icColNo:         NewInlineCache("col_no"),
		Importer:        importer,
		Log:             obslog.Discard,
		Exit:            os.Exit,
	}
}

// recordCache reports a single inline-cache hit or miss for site to the
// configured profiler, a no-op when no profiler is attached.
func (in *Interpreter) recordCache(site *Object, hit bool) {
	if in.Profiler != nil {
		in.Profiler.RecordCacheAccess(site, hit)
	}
}

// cachedInt64 resolves ic on o, reporting the hit/miss to the profiler
// before the resolution refreshes ic's hint.
func (in *Interpreter) cachedInt64(ic *InlineCache, o *Object) (int64, error) {
	hit := ic.hitHint(o)
	v, err := ic.GetInt64(o)
	if err == nil {
		in.recordCache(o, hit)
	}
	return v, err
}

// cachedStr resolves ic on o, reporting the hit/miss to the profiler
// before the resolution refreshes ic's hint.
func (in *Interpreter) cachedStr(ic *InlineCache, o *Object) (*String, error) {
	hit := ic.hitHint(o)
	v, err := ic.GetStr(o)
	if err == nil {
		in.recordCache(o, hit)
	}
	return v, err
}

// cachedObj resolves ic on o, reporting the hit/miss to the profiler
// before the resolution refreshes ic's hint.
func (in *Interpreter) cachedObj(ic *InlineCache, o *Object) (*Object, error) {
	hit := ic.hitHint(o)
	v, err := ic.GetObj(o)
	if err == nil {
		in.recordCache(o, hit)
	}
	return v, err
}

// sourcePos formats instr's optional src_pos field, for ArityMismatch and
// abort diagnostics.
func (in *Interpreter) sourcePos(instr *Object) *SourcePos {
	pos, err := in.icSrcPos.GetOptionalObj(instr)
	if err != nil || pos == nil {
		return nil
	}
	name, err := in.icSrcName.GetStr(pos)
	if err != nil {
		return nil
	}
	line, err := in.icLineNo.GetInt64(pos)
	if err != nil {
		return nil
	}
	col, err := in.icColNo.GetInt64(pos)
	if err != nil {
		return nil
	}
	return &SourcePos{Name: name.GoString(), Line: line, Col: col}
}

// enterBlock resets the activation to execute block from its first
// instruction. A branch always replaces the current block wholesale and
// resets the cursor to zero; there is no partial re-entry.
func (in *Interpreter) enterBlock(a *activation, block *Object) error {
	instrs, err := in.icInstrs.GetArr(block)
	if err != nil {
		return err
	}
	if instrs.Len() == 0 {
		return &RunError{Kind: ErrEmptyTarget}
	}
	a.block = block
	a.instrs = instrs
	a.idx = 0
	return nil
}

// CallObjectFn invokes fn (a Function object) with args, using host
// recursion for the call rather than an explicit call stack.
func (in *Interpreter) CallObjectFn(fn *Object, args []Value) (Value, error) {
	numParams, err := in.cachedInt64(in.icNumParams, fn)
	if err != nil {
		return Undef, err
	}
	numLocals, err := in.cachedInt64(in.icNumLocals, fn)
	if err != nil {
		return Undef, err
	}
	if int64(len(args)) != numParams {
		return Undef, &RunError{Kind: ErrArityMismatch, Got: len(args), Want: int(numParams)}
	}
	entry, err := in.cachedObj(in.icEntry, fn)
	if err != nil {
		return Undef, err
	}

	a := &activation{locals: make([]Value, numLocals)}
	for i := range a.locals {
		a.locals[i] = Undef
	}
	copy(a.locals, args)
	if err := in.enterBlock(a, entry); err != nil {
		return Undef, err
	}
	return in.runFrame(a)
}

// CallValue dispatches a call opcode's callee uniformly over an Object
// function or a HostFn, raising InvalidCallee for anything else.
func (in *Interpreter) CallValue(callee Value, args []Value, site *Object) (Value, error) {
	if in.Profiler != nil && site != nil {
		in.Profiler.RecordCall(site)
	}
	switch callee.Tag {
	case OBJECT:
		return in.CallObjectFn(callee.AsObject(), args)
	case HOSTFN:
		fn := callee.AsHostFn()
		if len(args) != fn.Arity() {
			err := &RunError{Kind: ErrArityMismatch, Got: len(args), Want: fn.Arity()}
			if site != nil {
				err = err.WithSrc(in.sourcePos(site))
			}
			return Undef, err
		}
		return fn.Invoke(args), nil
	default:
		return Undef, &RunError{Kind: ErrInvalidCallee}
	}
}

// CallExportFn is the embedder-facing entry point: it invokes
// pkg.<fnName> with the given arguments, failing if the field is absent
// or not an Object function. The deferred recover here is a defensive
// backstop against an unexpected panic, not the primary error path —
// every ordinary run error is returned normally up the call chain.
func (in *Interpreter) CallExportFn(pkg *Object, fnName string, args []Value) (result Value, err error) {
	v, _, ok := pkg.Lookup(fnName)
	if !ok {
		return Undef, &RunError{Kind: ErrMissingField, Detail: fnName}
	}
	if v.Tag != OBJECT {
		return Undef, &RunError{Kind: ErrInvalidCallee}
	}

	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(*RunError); ok {
				err = re
				return
			}
			err = &RunError{Kind: ErrUnhandledOp, Detail: "internal panic: " + panicMessage(r)}
		}
	}()

	before := in.cycles
	result, err = in.CallObjectFn(v.AsObject(), args)
	if in.Profiler != nil {
		in.Profiler.AddCycles(v.AsObject(), in.cycles-before)
	}
	return result, err
}
