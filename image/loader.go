// Package image loads programs into the runtime's Object graph and
// resolves import statements against a package search path.
package image

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/smazumder05/zetavm/vm"
)

// wireValue is the on-disk shape of one value in an image: a tag naming
// which payload field is meaningful, mirroring vm.Value's own tagged
// union so decoding is a direct one-to-one walk rather than a generic
// interface{} type switch.
type wireValue struct {
	Tag string      `cbor:"tag"`
	B   bool        `cbor:"b,omitempty"`
	I   int64       `cbor:"i,omitempty"`
	S   string      `cbor:"s,omitempty"`
	Arr []wireValue `cbor:"arr,omitempty"`
	Obj []wireField `cbor:"obj,omitempty"`
}

type wireField struct {
	Name string    `cbor:"name"`
	Val  wireValue `cbor:"val"`
}

// LoadImage decodes a CBOR-encoded image and returns its root value,
// which must be an object (typically a package: a map of exported names
// to Function objects). Host functions and the code-heap return-address
// sentinel never appear on the wire — only the data tags a program can
// itself construct.
func LoadImage(r io.Reader) (*vm.Object, error) {
	var root wireValue
	if err := cbor.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	v, err := toValue(root)
	if err != nil {
		return nil, err
	}
	if v.Tag != vm.OBJECT {
		return nil, fmt.Errorf("image: root value is %s, want object", v.Tag)
	}
	return v.AsObject(), nil
}

func toValue(w wireValue) (vm.Value, error) {
	switch w.Tag {
	case "undef":
		return vm.Undef, nil
	case "bool":
		return vm.Bool(w.B), nil
	case "int64":
		return vm.Int64(w.I), nil
	case "string":
		return vm.Str(vm.NewString(w.S)), nil
	case "array":
		arr := vm.NewArray(len(w.Arr))
		for _, e := range w.Arr {
			ev, err := toValue(e)
			if err != nil {
				return vm.Undef, err
			}
			arr.Push(ev)
		}
		return vm.Arr(arr), nil
	case "object":
		obj := vm.NewObject(len(w.Obj))
		for _, f := range w.Obj {
			fv, err := toValue(f.Val)
			if err != nil {
				return vm.Undef, err
			}
			obj.SetField(f.Name, fv)
		}
		return vm.Obj(obj), nil
	default:
		return vm.Undef, fmt.Errorf("image: unrecognized wire tag %q", w.Tag)
	}
}

// fromValue is the inverse of toValue, used by tests and by any tool
// that writes images (e.g. a future assembler).
func fromValue(v vm.Value) wireValue {
	switch v.Tag {
	case vm.BOOL:
		return wireValue{Tag: "bool", B: v.AsBool()}
	case vm.INT64:
		return wireValue{Tag: "int64", I: v.AsInt64()}
	case vm.STRING:
		return wireValue{Tag: "string", S: v.AsString().GoString()}
	case vm.ARRAY:
		arr := v.AsArray()
		out := make([]wireValue, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			out[i] = fromValue(arr.Get(i))
		}
		return wireValue{Tag: "array", Arr: out}
	case vm.OBJECT:
		obj := v.AsObject()
		fields := make([]wireField, obj.NumFields())
		for i := 0; i < obj.NumFields(); i++ {
			name, val := obj.FieldAt(i)
			fields[i] = wireField{Name: name, Val: fromValue(val)}
		}
		return wireValue{Tag: "object", Obj: fields}
	default:
		return wireValue{Tag: "undef"}
	}
}

// EncodeImage serializes root (typically a package object) to CBOR.
func EncodeImage(w io.Writer, root *vm.Object) error {
	return cbor.NewEncoder(w).Encode(fromValue(vm.Obj(root)))
}
