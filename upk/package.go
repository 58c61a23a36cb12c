// Package upk is the typed view of a decoded game package. Binary decoding
// happens upstream; this package only models what the decoder hands over.
package upk

import (
	"errors"
	"strings"
)

// ErrNotDecoded is returned when an export exists but its payload could not
// be decoded into a typed object.
var ErrNotDecoded = errors.New("object not decoded")

// Index references an entry of a package: positive values are 1-based export
// indices, negative values are imports (-1 is the first import), 0 is null.
type Index int32

func (i Index) IsExport() bool { return i > 0 }
func (i Index) IsImport() bool { return i < 0 }
func (i Index) IsNull() bool { return i == 0 }

// Entry is implemented by *Export and *Import.
type Entry interface {
	Name() string
	Class() string
	OuterIndex() Index
}

// Import names an object that lives in another package.
type Import struct {
	ObjectName   string `json:"name"`
	ClassName    string `json:"class"`
	ClassPackage string `json:"classPackage,omitempty"`
	Outer        Index  `json:"outer,omitempty"`
}

func (imp *Import) Name() string { return imp.ObjectName }
func (imp *Import) Class() string { return imp.ClassName }
func (imp *Import) OuterIndex() Index { return imp.Outer }

// Export is an object stored in the package itself.
type Export struct {
	ObjectName string `json:"name"`
	ClassName  string `json:"class"`
	Outer      Index  `json:"outer,omitempty"`

	// Object is the decoded payload, nil when the decoder could not handle
	// the class.
	Object Object `json:"-"`

	index Index
	pkg   *Package
}

func (exp *Export) Name() string { return exp.ObjectName }
func (exp *Export) Class() string { return exp.ClassName }
func (exp *Export) OuterIndex() Index { return exp.Outer }

// UIndex returns the export's own reference value inside its package.
func (exp *Export) UIndex() Index { return exp.index }

// FileRef returns the package that owns the export.
func (exp *Export) FileRef() *Package { return exp.pkg }

// InstancedFullPath is the dot separated path of the export.
func (exp *Export) InstancedFullPath() string {
	if exp.pkg == nil {
		return exp.ObjectName
	}
	return exp.pkg.InstancedFullPath(exp.index)
}

// Level lists the actors placed in a persistent level.
type Level struct {
	Actors []Index `json:"actors"`
}

// Package is one opened package file. It is read-only after construction.
type Package struct {
	FilePath                 string
	Game                     string
	AdditionalPackagesToCook []string
	Exports                  []*Export
	Imports                  []*Import
	Level                    *Level
}

// NewPackage returns an empty package rooted at path.
func NewPackage(path, game string) *Package {
	return &Package{FilePath: path, Game: game}
}

// AddExport appends an export and returns its reference.
func (p *Package) AddExport(name, class string, outer Index, obj Object) Index {
	exp := &Export{ObjectName: name, ClassName: class, Outer: outer, Object: obj}
	p.Exports = append(p.Exports, exp)
	exp.index = Index(len(p.Exports))
	exp.pkg = p
	return exp.index
}

// AddImport appends an import and returns its reference.
func (p *Package) AddImport(name, class string, outer Index) Index {
	p.Imports = append(p.Imports, &Import{ObjectName: name, ClassName: class, Outer: outer})
	return Index(-len(p.Imports))
}

// link restores the back references of exports after bulk construction.
func (p *Package) link() {
	for i, exp := range p.Exports {
		exp.index = Index(i + 1)
		exp.pkg = p
	}
}

// Export returns the export designated by idx.
func (p *Package) Export(idx Index) (*Export, bool) {
	if !idx.IsExport() || int(idx) > len(p.Exports) {
		return nil, false
	}
	return p.Exports[idx-1], true
}

// Import returns the import designated by idx.
func (p *Package) Import(idx Index) (*Import, bool) {
	if !idx.IsImport() || int(-idx) > len(p.Imports) {
		return nil, false
	}
	return p.Imports[-idx-1], true
}

// Entry returns the export or import designated by idx.
func (p *Package) Entry(idx Index) (Entry, bool) {
	switch {
	case idx.IsExport():
		exp, ok := p.Export(idx)
		if !ok {
			return nil, false
		}
		return exp, true
	case idx.IsImport():
		imp, ok := p.Import(idx)
		if !ok {
			return nil, false
		}
		return imp, true
	}
	return nil, false
}

// MaxOuterDepth bounds outer-chain walks and import hops on malformed
// packages.
const MaxOuterDepth = 64

// InstancedFullPath joins the names along the outer chain of idx, outermost
// first. Unknown entries yield an empty string.
func (p *Package) InstancedFullPath(idx Index) string {
	var parts []string
	for depth := 0; !idx.IsNull() && depth < MaxOuterDepth; depth++ {
		e, ok := p.Entry(idx)
		if !ok {
			break
		}
		parts = append(parts, e.Name())
		idx = e.OuterIndex()
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// RootName returns the outermost name on the chain of idx, which for an
// import is the name of the package that holds the object.
func (p *Package) RootName(idx Index) string {
	full := p.InstancedFullPath(idx)
	if i := strings.IndexByte(full, '.'); i >= 0 {
		return full[:i]
	}
	return full
}
