package pccasset

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/flywave/go-pccasset/upk"
)

// Session resolves references for one extraction request. Sibling packages
// opened for import resolution are kept until the session is dropped, so a
// pass over many materials opens each sibling at most once.
type Session struct {
	opener   upk.Opener
	files    LoadedFiles
	logger   *log.Logger
	root     *upk.Package
	siblings map[string]*upk.Package
}

// NewSession starts a session rooted at pkg. files is the loaded-files
// index of pkg's game and may be nil.
func NewSession(pkg *upk.Package, opener upk.Opener, files LoadedFiles, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		opener:   opener,
		files:    files,
		logger:   logger,
		root:     pkg,
		siblings: map[string]*upk.Package{},
	}
}

// Root returns the package the session was opened for.
func (s *Session) Root() *upk.Package { return s.root }

// Resolve returns the export designated by ref inside pkg, following imports
// into sibling packages. The owning package of the result is
// exp.FileRef(), which may differ from pkg.
func (s *Session) Resolve(pkg *upk.Package, ref upk.Index) (*upk.Export, bool) {
	exp, err := s.resolve(pkg, ref)
	if err != nil {
		s.logger.Debug("skipping reference", "package", pkg.FilePath, "ref", ref, "err", err)
		return nil, false
	}
	return exp, true
}

func (s *Session) resolve(pkg *upk.Package, ref upk.Index) (*upk.Export, error) {
	return s.resolveAt(pkg, ref, 0)
}

func (s *Session) resolveAt(pkg *upk.Package, ref upk.Index, depth int) (*upk.Export, error) {
	switch {
	case ref.IsExport():
		exp, ok := pkg.Export(ref)
		if !ok {
			return nil, fmt.Errorf("export %d out of range: %w", ref, ErrReferenceUnresolved)
		}
		return exp, nil
	case ref.IsImport():
		if depth >= upk.MaxOuterDepth {
			return nil, fmt.Errorf("import chain of %s too deep: %w", pkg.InstancedFullPath(ref), ErrReferenceUnresolved)
		}
		return s.resolveImport(pkg, ref, depth)
	}
	return nil, fmt.Errorf("null reference: %w", ErrReferenceUnresolved)
}

// resolveImport looks ref up in the package named by its root. When that
// package only imports the object too, the lookup continues from there.
func (s *Session) resolveImport(pkg *upk.Package, ref upk.Index, depth int) (*upk.Export, error) {
	imp, ok := pkg.Import(ref)
	if !ok {
		return nil, fmt.Errorf("import %d out of range: %w", ref, ErrReferenceUnresolved)
	}
	full := pkg.InstancedFullPath(ref)
	root := pkg.RootName(ref)
	sib, err := s.sibling(root)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", full, err)
	}
	inner := strings.TrimPrefix(full, root+".")
	sameClass := func(class string) bool {
		return imp.ClassName == "" || strings.EqualFold(class, imp.ClassName)
	}
	for _, exp := range sib.Exports {
		if !sameClass(exp.ClassName) {
			continue
		}
		p := exp.InstancedFullPath()
		if strings.EqualFold(p, full) || strings.EqualFold(p, inner) {
			return exp, nil
		}
	}
	if sib == pkg {
		return nil, fmt.Errorf("%s not in %s: %w", full, sib.FilePath, ErrReferenceUnresolved)
	}
	for i, next := range sib.Imports {
		if !sameClass(next.ClassName) {
			continue
		}
		idx := upk.Index(-(i + 1))
		p := sib.InstancedFullPath(idx)
		if strings.EqualFold(p, full) || strings.EqualFold(stripRoot(p), inner) {
			return s.resolveAt(sib, idx, depth+1)
		}
	}
	return nil, fmt.Errorf("%s not in %s: %w", full, sib.FilePath, ErrReferenceUnresolved)
}

// stripRoot drops the package segment of an import path.
func stripRoot(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return ""
}

// sibling opens the loaded package named root, at most once per session.
func (s *Session) sibling(root string) (*upk.Package, error) {
	path, ok := s.lookup(root)
	if !ok {
		return nil, fmt.Errorf("package %s not loaded: %w", root, ErrReferenceUnresolved)
	}
	key := strings.ToLower(path)
	if s.root != nil && strings.EqualFold(s.root.FilePath, path) {
		return s.root, nil
	}
	if pkg, ok := s.siblings[key]; ok {
		if pkg == nil {
			return nil, fmt.Errorf("package %s: %w", path, ErrDecodeUnavailable)
		}
		return pkg, nil
	}
	pkg, err := s.opener.Open(path)
	if err != nil {
		s.logger.Warn("cannot open sibling package", "path", path, "err", err)
		s.siblings[key] = nil
		return nil, fmt.Errorf("package %s: %w", path, ErrDecodeUnavailable)
	}
	s.siblings[key] = pkg
	return pkg, nil
}

func (s *Session) lookup(root string) (string, bool) {
	for _, ext := range PackageExtensions {
		if p, ok := s.files.Lookup(root + ext); ok {
			return p, true
		}
	}
	return "", false
}
