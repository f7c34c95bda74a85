package image

import (
	"testing"

	"github.com/smazumder05/zetavm/vm"
)

func TestValidatePackageAcceptsWellFormedPackage(t *testing.T) {
	pkg := buildSamplePackage()
	if err := ValidatePackage(pkg); err != nil {
		t.Errorf("well-formed package failed validation: %v", err)
	}
}

func TestValidatePackageRejectsNegativeNumParams(t *testing.T) {
	pkg := buildSamplePackage()
	fnVal, _, _ := pkg.Lookup("main")
	fnVal.AsObject().SetField("num_params", vm.Int64(-1))

	if err := ValidatePackage(pkg); err == nil {
		t.Fatal("expected validation to reject a negative num_params")
	}
}

func TestValidatePackageRejectsEmptyBlock(t *testing.T) {
	pkg := buildSamplePackage()
	fnVal, _, _ := pkg.Lookup("main")
	entryVal, _, _ := fnVal.AsObject().Lookup("entry")
	entryVal.AsObject().SetField("instrs", vm.Arr(vm.NewArray(0)))

	if err := ValidatePackage(pkg); err == nil {
		t.Fatal("expected validation to reject a block with no instructions")
	}
}

func TestValidatePackageRejectsInstructionMissingOp(t *testing.T) {
	pkg := buildSamplePackage()
	badInstr := vm.NewObject(0)
	arr := vm.NewArray(1)
	arr.Push(vm.Obj(badInstr))

	fnVal, _, _ := pkg.Lookup("main")
	entryVal, _, _ := fnVal.AsObject().Lookup("entry")
	entryVal.AsObject().SetField("instrs", vm.Arr(arr))

	if err := ValidatePackage(pkg); err == nil {
		t.Fatal("expected validation to reject an instruction with no op field")
	}
}
