package vm

import "testing"

func TestHostFnArityDispatch(t *testing.T) {
	sum3 := NewHostFn3("sum3", func(a0, a1, a2 Value) Value {
		return Int64(a0.AsInt64() + a1.AsInt64() + a2.AsInt64())
	})
	if sum3.Arity() != 3 {
		t.Fatalf("Arity() = %d, want 3", sum3.Arity())
	}
	got := sum3.Invoke([]Value{Int64(1), Int64(2), Int64(3)})
	if got.AsInt64() != 6 {
		t.Errorf("Invoke = %d, want 6", got.AsInt64())
	}
}

func TestHostFnName(t *testing.T) {
	fn := NewHostFn0("noop", func() Value { return Undef })
	if fn.Name() != "noop" {
		t.Errorf("Name() = %q, want %q", fn.Name(), "noop")
	}
}
