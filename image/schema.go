package image

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/smazumder05/zetavm/vm"
)

// packageSchema constrains every exported binding in a loaded package to
// a well-formed Function: non-negative param/local counts and an entry
// block whose instructions are themselves well-formed. Strict mode
// (config/config.go's Loader.Strict) runs this before execution so a
// malformed image fails fast with a field-level diagnostic instead of a
// generic MissingField/TypeMismatch part-way through a run.
const packageSchema = `
#SourcePos: {
	src_name: string
	line_no:  int
	col_no:   int
}

#Instruction: {
	op:       string
	src_pos?: #SourcePos
	...
}

#BasicBlock: {
	instrs: [#Instruction, ...#Instruction]
	name?:  string
}

#Function: {
	num_params: int & >=0
	num_locals: int & >=0
	entry:      #BasicBlock
}

#Package: {
	[string]: #Function
}
`

var cueCtx = cuecontext.New()

// toGo converts a runtime Value to a plain Go value (bool, int64,
// string, []interface{}, map[string]interface{}) suitable for
// cue.Context.Encode. Only used by the validator; the interpreter never
// materializes this shape.
func toGo(v vm.Value) interface{} {
	switch v.Tag {
	case vm.UNDEF:
		return nil
	case vm.BOOL:
		return v.AsBool()
	case vm.INT64:
		return v.AsInt64()
	case vm.STRING:
		return v.AsString().GoString()
	case vm.ARRAY:
		arr := v.AsArray()
		out := make([]interface{}, arr.Len())
		for i := 0; i < arr.Len(); i++ {
			out[i] = toGo(arr.Get(i))
		}
		return out
	case vm.OBJECT:
		obj := v.AsObject()
		out := make(map[string]interface{}, obj.NumFields())
		for i := 0; i < obj.NumFields(); i++ {
			name, val := obj.FieldAt(i)
			out[name] = toGo(val)
		}
		return out
	default:
		return nil
	}
}

// ValidatePackage checks pkg's exported bindings against the package
// schema, returning the first structural violation.
func ValidatePackage(pkg *vm.Object) error {
	schema := cueCtx.CompileString(packageSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("image: invalid schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Package"))

	encoded := cueCtx.Encode(toGo(vm.Obj(pkg)))
	if err := encoded.Err(); err != nil {
		return fmt.Errorf("image: encoding package for validation: %w", err)
	}

	unified := def.Unify(encoded)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("image: schema validation failed: %w", err)
	}
	return nil
}
