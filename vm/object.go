package vm

// Object maps field names to Values, with slot-indexed access: a lookup
// returns the value and the slot index it was found in, so a repeated
// lookup with that hint returns in constant time as long as the slot
// still holds the same name.
//
// Field name and value live in parallel slices rather than a
// vtable-slot layout, since this core has no class system to key slots
// against.
type Object struct {
	names  []string
	values []Value
}

// NewObject allocates an empty Object with at least the given slot
// capacity.
func NewObject(capacity int) *Object {
	if capacity < 0 {
		capacity = 0
	}
	return &Object{
		names:  make([]string, 0, capacity),
		values: make([]Value, 0, capacity),
	}
}

// NumFields returns the number of fields currently set.
func (o *Object) NumFields() int { return len(o.names) }

// scan performs a linear scan for name, returning (value, slot, true) on
// a hit or (Undef, -1, false) on a miss.
func (o *Object) scan(name string) (Value, int, bool) {
	for i, n := range o.names {
		if n == name {
			return o.values[i], i, true
		}
	}
	return Undef, -1, false
}

// Lookup performs a fresh linear scan for name — the inline cache's
// first-access path, and the ground truth any cached result must agree
// with.
func (o *Object) Lookup(name string) (Value, int, bool) {
	return o.scan(name)
}

// LookupHinted implements the inline-cache contract: compare the field
// at the cached slot first; if it matches name, return its value in
// O(1). Otherwise fall back to a linear scan. Returns the (possibly
// updated) slot to use as the next hint.
func (o *Object) LookupHinted(name string, hint int) (Value, int, bool) {
	if hint >= 0 && hint < len(o.names) && o.names[hint] == name {
		return o.values[hint], hint, true
	}
	return o.scan(name)
}

// HasField reports whether name is present.
func (o *Object) HasField(name string) bool {
	_, _, ok := o.scan(name)
	return ok
}

// SetField sets name to v, appending a new slot if name is not already
// present. Returns the slot index written.
func (o *Object) SetField(name string, v Value) int {
	if _, slot, ok := o.scan(name); ok {
		o.values[slot] = v
		return slot
	}
	o.names = append(o.names, name)
	o.values = append(o.values, v)
	return len(o.names) - 1
}

// FieldAt returns the (name, value) pair at slot i, for iteration by
// collaborators (the loader, the structural validator).
func (o *Object) FieldAt(i int) (string, Value) {
	return o.names[i], o.values[i]
}
