package tablemod

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/roach88/framboise/internal/module"
)

// definitionFiles are tried in order inside a module directory.
var definitionFiles = []string{"fuzzer.yaml", "fuzzer.yml", "fuzzer.cue"}

// DirSource is a module.Source over a directory of module directories,
// laid out as <root>/<Name>/fuzzer.yaml.
type DirSource struct {
	root string
}

var _ module.Source = (*DirSource)(nil)

// Dir creates a DirSource rooted at root. The directory is read lazily.
func Dir(root string) *DirSource {
	return &DirSource{root: root}
}

// Root returns the directory the source reads.
func (d *DirSource) Root() string { return d.root }

// Path returns the definition file of module name, or ErrNoDefinition.
func (d *DirSource) Path(name string) (string, error) {
	for _, f := range definitionFiles {
		p := filepath.Join(d.root, name, f)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoDefinition, filepath.Join(d.root, name))
}

// Lookup implements module.Source. The factory parses and compiles the
// definition on every call, so each run gets a fresh module.
func (d *DirSource) Lookup(name string) (module.Factory, bool) {
	path, err := d.Path(name)
	if err != nil {
		return nil, false
	}
	return func() (module.Module, error) {
		m, err := Load(path, name)
		if err != nil {
			return nil, err
		}
		return m, nil
	}, true
}

// Names implements module.Source: every subdirectory holding a definition.
func (d *DirSource) Names() []string {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := d.Path(e.Name()); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Load parses and compiles the definition at path. A definition without a
// name takes dirName; a name that disagrees with dirName is an error.
func Load(path, dirName string) (*Module, error) {
	def, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	if def.Name == "" {
		def.Name = dirName
	}
	if dirName != "" && def.Name != dirName {
		return nil, &DefinitionError{File: path, Message: fmt.Sprintf("name %q does not match directory %q", def.Name, dirName)}
	}
	return Compile(def, path)
}
