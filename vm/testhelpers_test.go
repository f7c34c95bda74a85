package vm

// newInstr builds an instruction object with the given op and extra
// fields, for hand-assembling small programs in tests.
func newInstr(op string, fields map[string]Value) *Object {
	o := NewObject(1 + len(fields))
	o.SetField("op", Str(NewString(op)))
	for k, v := range fields {
		o.SetField(k, v)
	}
	return o
}

// newBlock builds a basic block object from a sequence of instructions.
func newBlock(instrs ...*Object) *Object {
	arr := NewArray(len(instrs))
	for _, i := range instrs {
		arr.Push(Obj(i))
	}
	b := NewObject(1)
	b.SetField("instrs", Arr(arr))
	return b
}

// newFn builds a Function object.
func newFn(numParams, numLocals int64, entry *Object) *Object {
	f := NewObject(3)
	f.SetField("num_params", Int64(numParams))
	f.SetField("num_locals", Int64(numLocals))
	f.SetField("entry", Obj(entry))
	return f
}

// newPkg builds a package object exporting the given name -> Function
// bindings.
func newPkg(fns map[string]*Object) *Object {
	p := NewObject(len(fns))
	for name, fn := range fns {
		p.SetField(name, Obj(fn))
	}
	return p
}
