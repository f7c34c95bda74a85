package image

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smazumder05/zetavm/vm"
)

// FileImporter resolves package names against a list of search
// directories, reading and decoding each image at most once. It
// implements vm.Importer for the interpreter's import opcode.
type FileImporter struct {
	SearchPath []string

	cache map[string]*vm.Object
}

// NewFileImporter creates an importer over searchPath, checked in order.
func NewFileImporter(searchPath []string) *FileImporter {
	return &FileImporter{
		SearchPath: searchPath,
		cache:      make(map[string]*vm.Object),
	}
}

// Import loads and memoizes the package named name (without extension).
// A second import of the same name returns the cached object rather
// than re-reading and re-decoding the file.
func (fi *FileImporter) Import(name string) (*vm.Object, error) {
	if pkg, ok := fi.cache[name]; ok {
		return pkg, nil
	}

	for _, dir := range fi.SearchPath {
		path := filepath.Join(dir, name+".zvi")
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("image: opening %s: %w", path, err)
		}
		pkg, err := LoadImage(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("image: loading %s: %w", path, err)
		}
		fi.cache[name] = pkg
		return pkg, nil
	}

	return nil, fmt.Errorf("image: package %q not found in search path %v", name, fi.SearchPath)
}
