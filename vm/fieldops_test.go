package vm

import "testing"

// TestNewObjectPopsCapacity checks new_object consumes a capacity
// operand from the stack and produces a field-less object.
func TestNewObjectPopsCapacity(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(4)}),
		newInstr("new_object", nil),
		newInstr("push", map[string]Value{"val": Str(NewString("x"))}),
		newInstr("has_field", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsTrue() {
		t.Errorf("has_field(new_object(4), \"x\") = %v, want false", got.Inspect())
	}
}

// TestSetFieldGetFieldRoundTrip checks a field set with a runtime
// (stack-popped) name is readable back through get_field.
func TestSetFieldGetFieldRoundTrip(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(0)}),
		newInstr("new_object", nil),
		newInstr("set_local", map[string]Value{"idx": Int64(0)}),

		newInstr("get_local", map[string]Value{"idx": Int64(0)}),
		newInstr("push", map[string]Value{"val": Str(NewString("count"))}),
		newInstr("push", map[string]Value{"val": Int64(41)}),
		newInstr("set_field", nil),

		newInstr("get_local", map[string]Value{"idx": Int64(0)}),
		newInstr("push", map[string]Value{"val": Str(NewString("count"))}),
		newInstr("get_field", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 1, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != INT64 || got.AsInt64() != 41 {
		t.Errorf("result = %v, want int64 41", got.Inspect())
	}
}

// TestHasFieldOnDifferentNamesAtSameSite exercises fieldCache's rekeying:
// the same has_field instruction, shared by two blocks that name two
// different fields, must not return a stale result from the first
// name's cached hint.
func TestHasFieldOnDifferentNamesAtSameSite(t *testing.T) {
	obj := NewObject(2)
	obj.SetField("present", Int64(1))

	hasFieldInstr := newInstr("has_field", nil)

	entry := newBlock(
		newInstr("push", map[string]Value{"val": Obj(obj)}),
		newInstr("push", map[string]Value{"val": Str(NewString("present"))}),
		hasFieldInstr,
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	other := newBlock(
		newInstr("push", map[string]Value{"val": Obj(obj)}),
		newInstr("push", map[string]Value{"val": Str(NewString("absent"))}),
		hasFieldInstr,
		newInstr("ret", nil),
	)
	fn2 := newFn(0, 0, other)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error (present): %v", err)
	}
	if !got.IsTrue() {
		t.Errorf("has_field(obj, \"present\") = %v, want true", got.Inspect())
	}

	got2, err := in.CallObjectFn(fn2, nil)
	if err != nil {
		t.Fatalf("unexpected error (absent): %v", err)
	}
	if got2.IsTrue() {
		t.Errorf("has_field(obj, \"absent\") = %v, want false (cache must not return the stale \"present\" hit)", got2.Inspect())
	}
}

// TestGetFieldMissingFieldErrors checks get_field on an absent field
// surfaces MissingField rather than returning Undef.
func TestGetFieldMissingFieldErrors(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(0)}),
		newInstr("new_object", nil),
		newInstr("push", map[string]Value{"val": Str(NewString("nope"))}),
		newInstr("get_field", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	_, err := in.CallObjectFn(fn, nil)
	re, ok := err.(*RunError)
	if !ok {
		t.Fatalf("err = %v, want *RunError", err)
	}
	if re.Kind != ErrMissingField {
		t.Errorf("Kind = %v, want MissingField", re.Kind)
	}
}

// TestSetFieldRejectsInvalidIdent checks set_field validates the
// popped name before writing it.
func TestSetFieldRejectsInvalidIdent(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(0)}),
		newInstr("new_object", nil),
		newInstr("push", map[string]Value{"val": Str(NewString("not an ident"))}),
		newInstr("push", map[string]Value{"val": Int64(1)}),
		newInstr("set_field", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	_, err := in.CallObjectFn(fn, nil)
	re, ok := err.(*RunError)
	if !ok {
		t.Fatalf("err = %v, want *RunError", err)
	}
	if re.Kind != ErrInvalidIdent {
		t.Errorf("Kind = %v, want InvalidIdent", re.Kind)
	}
}

// stubImporter is a minimal Importer for exercising the import opcode's
// runtime-popped package name.
type stubImporter struct {
	pkgs map[string]*Object
}

func (s *stubImporter) Import(name string) (*Object, error) {
	pkg, ok := s.pkgs[name]
	if !ok {
		return nil, &RunError{Kind: ErrMissingField, Detail: name}
	}
	return pkg, nil
}

// TestImportPopsPackageNameFromStack checks import resolves a package
// name popped from the stack at runtime, not a static instruction field.
func TestImportPopsPackageNameFromStack(t *testing.T) {
	mathPkg := newPkg(nil)
	mathPkg.SetField("answer", Int64(42))
	importer := &stubImporter{pkgs: map[string]*Object{"math": mathPkg}}

	entry := newBlock(
		newInstr("push", map[string]Value{"val": Str(NewString("math"))}),
		newInstr("import", nil),
		newInstr("push", map[string]Value{"val": Str(NewString("answer"))}),
		newInstr("get_field", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(importer)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != INT64 || got.AsInt64() != 42 {
		t.Errorf("result = %v, want int64 42", got.Inspect())
	}
}
