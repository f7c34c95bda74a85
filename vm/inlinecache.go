package vm

// InlineCache accelerates repeated lookups of one field name across many
// objects. It is deliberately a small value type owned by whichever call
// site uses it — never a bare package-level global — so the cached hint
// slot is scoped to the site that reads it.
type InlineCache struct {
	field string
	hint  int
}

// NewInlineCache creates an inline cache for field, with no cached slot
// yet (hint -1 never matches, so the first Get always does a full scan).
func NewInlineCache(field string) *InlineCache {
	return &InlineCache{field: field, hint: -1}
}

// hitHint reports whether the cache's current hint slot already names
// field on o, i.e. whether the next Get will resolve in O(1) without a
// fallback scan. Callers use this to report a hit/miss to a ProfileSink
// before the Get that would otherwise refresh the hint.
func (ic *InlineCache) hitHint(o *Object) bool {
	return ic.hint >= 0 && ic.hint < len(o.names) && o.names[ic.hint] == ic.field
}

// Get resolves the cache's field on o, using and then refreshing the
// cached hint slot. Returns MissingField if the field is absent.
func (ic *InlineCache) Get(o *Object) (Value, error) {
	v, slot, ok := o.LookupHinted(ic.field, ic.hint)
	if !ok {
		return Undef, &RunError{Kind: ErrMissingField, Detail: ic.field}
	}
	ic.hint = slot
	return v, nil
}

// GetInt64 resolves the field and asserts it is an INT64.
func (ic *InlineCache) GetInt64(o *Object) (int64, error) {
	v, err := ic.Get(o)
	if err != nil {
		return 0, err
	}
	if v.Tag != INT64 {
		return 0, &RunError{Kind: ErrTypeMismatch, Detail: "expected int64 field " + ic.field}
	}
	return v.AsInt64(), nil
}

// GetStr resolves the field and asserts it is a STRING.
func (ic *InlineCache) GetStr(o *Object) (*String, error) {
	v, err := ic.Get(o)
	if err != nil {
		return nil, err
	}
	if v.Tag != STRING {
		return nil, &RunError{Kind: ErrTypeMismatch, Detail: "expected string field " + ic.field}
	}
	return v.AsString(), nil
}

// GetObj resolves the field and asserts it is an OBJECT.
func (ic *InlineCache) GetObj(o *Object) (*Object, error) {
	v, err := ic.Get(o)
	if err != nil {
		return nil, err
	}
	if v.Tag != OBJECT {
		return nil, &RunError{Kind: ErrTypeMismatch, Detail: "expected object field " + ic.field}
	}
	return v.AsObject(), nil
}

// GetArr resolves the field and asserts it is an ARRAY.
func (ic *InlineCache) GetArr(o *Object) (*Array, error) {
	v, err := ic.Get(o)
	if err != nil {
		return nil, err
	}
	if v.Tag != ARRAY {
		return nil, &RunError{Kind: ErrTypeMismatch, Detail: "expected array field " + ic.field}
	}
	return v.AsArray(), nil
}

// GetOptionalObj resolves an optional field (e.g. src_pos), returning
// (nil, nil) if absent rather than MissingField.
func (ic *InlineCache) GetOptionalObj(o *Object) (*Object, error) {
	if !o.HasField(ic.field) {
		return nil, nil
	}
	return ic.GetObj(o)
}
