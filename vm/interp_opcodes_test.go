package vm

import "testing"

// TestNewArrayLenInvariant checks new_array(n) followed by array_len
// yields n, without any array_push having run.
func TestNewArrayLenInvariant(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(5)}),
		newInstr("new_array", nil),
		newInstr("dup", map[string]Value{"idx": Int64(0)}),
		newInstr("array_len", nil),
		newInstr("swap", nil),
		newInstr("pop", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != INT64 || got.AsInt64() != 5 {
		t.Errorf("array_len(new_array(5)) = %v, want int64 5", got.Inspect())
	}
}

// TestArrayPushThenGetElem checks that array_push mutates the array in
// place: the reference stashed in a local before the push still sees
// the pushed element after array_push consumes its stack operand.
func TestArrayPushThenGetElem(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(0)}),
		newInstr("new_array", nil),
		newInstr("set_local", map[string]Value{"idx": Int64(0)}),
		newInstr("get_local", map[string]Value{"idx": Int64(0)}),
		newInstr("push", map[string]Value{"val": Int64(42)}),
		newInstr("array_push", nil),
		newInstr("get_local", map[string]Value{"idx": Int64(0)}),
		newInstr("push", map[string]Value{"val": Int64(0)}),
		newInstr("get_elem", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 1, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != INT64 || got.AsInt64() != 42 {
		t.Errorf("result = %v, want int64 42", got.Inspect())
	}
}

// TestSetElemOverwritesIndex checks set_elem mutates the array's backing
// storage at idx, visible through a second reference to the same array.
func TestSetElemOverwritesIndex(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(3)}),
		newInstr("new_array", nil),
		newInstr("set_local", map[string]Value{"idx": Int64(0)}),
		newInstr("get_local", map[string]Value{"idx": Int64(0)}),
		newInstr("push", map[string]Value{"val": Int64(1)}),
		newInstr("push", map[string]Value{"val": Int64(99)}),
		newInstr("set_elem", nil),
		newInstr("get_local", map[string]Value{"idx": Int64(0)}),
		newInstr("push", map[string]Value{"val": Int64(1)}),
		newInstr("get_elem", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 1, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != INT64 || got.AsInt64() != 99 {
		t.Errorf("result = %v, want int64 99", got.Inspect())
	}
}

// TestStrCatAssociativity checks str_cat(a, str_cat(b, c)) ==
// str_cat(str_cat(a, b), c).
func TestStrCatAssociativity(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Str(NewString("a"))}),
		newInstr("push", map[string]Value{"val": Str(NewString("b"))}),
		newInstr("push", map[string]Value{"val": Str(NewString("c"))}),
		newInstr("str_cat", nil), // b + c
		newInstr("str_cat", nil), // a + (b + c)
		newInstr("push", map[string]Value{"val": Str(NewString("a"))}),
		newInstr("push", map[string]Value{"val": Str(NewString("b"))}),
		newInstr("str_cat", nil), // a + b
		newInstr("push", map[string]Value{"val": Str(NewString("c"))}),
		newInstr("str_cat", nil), // (a + b) + c
		newInstr("eq_str", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsTrue() {
		t.Errorf("str_cat(a, str_cat(b,c)) == str_cat(str_cat(a,b), c) = %v, want true", got.Inspect())
	}
}

// TestHasTagMatchesValueTag checks has_tag against both the value's own
// tag name and an unrelated one.
func TestHasTagMatchesValueTag(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		tag  string
		want bool
	}{
		{"int64 matches int64", Int64(5), "int64", true},
		{"int64 does not match string", Int64(5), "string", false},
		{"bool matches bool", True, "bool", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := newBlock(
				newInstr("push", map[string]Value{"val": tt.val}),
				newInstr("has_tag", map[string]Value{"tag": Str(NewString(tt.tag))}),
				newInstr("ret", nil),
			)
			fn := newFn(0, 0, entry)

			in := NewInterpreter(nil)
			got, err := in.CallObjectFn(fn, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.IsTrue() != tt.want {
				t.Errorf("has_tag(%s, %q) = %v, want %v", tt.val.Inspect(), tt.tag, got.Inspect(), tt.want)
			}
		})
	}
}

// TestGetTagRoundTripsThroughHasTag checks get_tag's result names the
// same tag has_tag independently confirms.
func TestGetTagRoundTripsThroughHasTag(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Str(NewString("hi"))}),
		newInstr("get_tag", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != STRING || got.AsString().GoString() != "string" {
		t.Errorf("get_tag(\"hi\") = %v, want string \"string\"", got.Inspect())
	}

	// has_tag on the same value must accept the name get_tag produced.
	check := newBlock(
		newInstr("push", map[string]Value{"val": Str(NewString("hi"))}),
		newInstr("has_tag", map[string]Value{"tag": got}),
		newInstr("ret", nil),
	)
	confirmed, err := in.CallObjectFn(newFn(0, 0, check), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !confirmed.IsTrue() {
		t.Errorf("has_tag(\"hi\", %q) = %v, want true", got.AsString().GoString(), confirmed.Inspect())
	}
}

// TestEqBoolComparesBooleans checks eq_bool against equal and unequal
// operand pairs.
func TestEqBoolComparesBooleans(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"true equals true", True, True, true},
		{"true differs from false", True, False, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := newBlock(
				newInstr("push", map[string]Value{"val": tt.a}),
				newInstr("push", map[string]Value{"val": tt.b}),
				newInstr("eq_bool", nil),
				newInstr("ret", nil),
			)
			fn := newFn(0, 0, entry)

			in := NewInterpreter(nil)
			got, err := in.CallObjectFn(fn, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.IsTrue() != tt.want {
				t.Errorf("eq_bool = %v, want %v", got.Inspect(), tt.want)
			}
		})
	}
}

// TestDupWithNonzeroIndex checks dup(idx) duplicates the element idx
// slots below the top, not the top itself.
func TestDupWithNonzeroIndex(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(7)}),
		newInstr("push", map[string]Value{"val": Int64(8)}),
		newInstr("dup", map[string]Value{"idx": Int64(1)}),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Tag != INT64 || got.AsInt64() != 7 {
		t.Errorf("dup(1) on [7,8] returned %v, want int64 7", got.Inspect())
	}
}

// TestDupZeroDuplicatesTop checks the dup(0) invariant: the stack's top
// two elements are equal after the duplicate.
func TestDupZeroDuplicatesTop(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(9)}),
		newInstr("dup", map[string]Value{"idx": Int64(0)}),
		newInstr("eq_i64", nil),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	got, err := in.CallObjectFn(fn, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsTrue() {
		t.Errorf("dup(0) top-two-equal check = %v, want true", got.Inspect())
	}
}

// TestDupIndexUnderflow checks an out-of-range idx is rejected rather
// than silently duplicating garbage.
func TestDupIndexUnderflow(t *testing.T) {
	entry := newBlock(
		newInstr("push", map[string]Value{"val": Int64(1)}),
		newInstr("dup", map[string]Value{"idx": Int64(5)}),
		newInstr("ret", nil),
	)
	fn := newFn(0, 0, entry)

	in := NewInterpreter(nil)
	_, err := in.CallObjectFn(fn, nil)
	re, ok := err.(*RunError)
	if !ok {
		t.Fatalf("err = %v, want *RunError", err)
	}
	if re.Kind != ErrStackUnderflow {
		t.Errorf("Kind = %v, want StackUnderflow", re.Kind)
	}
}
