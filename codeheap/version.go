package codeheap

import "github.com/smazumder05/zetavm/vm"

// BlockVersion is one compiled version of a basic block. Real
// block-versioning JITs key versions on argument type/shape so a block
// can have many specialized versions; this engine always produces
// exactly one version per block, keyed by the block's own identity.
type BlockVersion struct {
	Block *vm.Object
	Words []Word
}

// VersionList is the identity-keyed table of compiled block versions.
// Looked up by the block object's pointer, same as the interpreter's
// opcode cache — safe for the same reason: block objects are immortal
// for the program's lifetime.
type VersionList struct {
	versions map[*vm.Object]*BlockVersion
}

// NewVersionList creates an empty version table.
func NewVersionList() *VersionList {
	return &VersionList{versions: make(map[*vm.Object]*BlockVersion)}
}

// Lookup returns the existing compiled version for block, if any.
func (vl *VersionList) Lookup(block *vm.Object) (*BlockVersion, bool) {
	bv, ok := vl.versions[block]
	return bv, ok
}

// Install records bv as block's (only) version.
func (vl *VersionList) Install(block *vm.Object, bv *BlockVersion) {
	vl.versions[block] = bv
}
