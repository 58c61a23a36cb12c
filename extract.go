// Package pccasset extracts meshes, materials, bones, animations and actor
// placements from decoded game packages and encodes them in the flat text
// protocol read by the importer scripts.
package pccasset

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/flywave/go-pccasset/upk"
)

// Extractor runs extraction requests. It holds no per-request state and is
// safe for concurrent use.
type Extractor struct {
	Opener        upk.Opener
	Games         GameIndex
	Launcher      Launcher
	Logger        *log.Logger
	TextureFormat string

	// ExporterPath is used when a request names no external exporter.
	ExporterPath string

	// DefaultGame selects the loaded-files index for packages that do not
	// record their game.
	DefaultGame string
}

// NewExtractor returns an extractor reading dumps through opener.
func NewExtractor(opener upk.Opener, games GameIndex, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{
		Opener:        opener,
		Games:         games,
		Launcher:      &ExecLauncher{Logger: logger},
		Logger:        logger,
		TextureFormat: PNG,
	}
}

// open decodes the requested package and starts a session on it.
func (e *Extractor) open(path string) (*Session, error) {
	pkg, err := e.Opener.Open(path)
	if err != nil {
		e.Logger.Error("cannot open package", "path", path, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrDecodeUnavailable, err)
	}
	game := pkg.Game
	if game == "" {
		game = e.DefaultGame
	}
	return NewSession(pkg, e.Opener, e.Games.Files(game), e.Logger), nil
}

// Locations lists the package path followed by the path of each additional
// package it cooks with, for those the game has loaded and that open. The
// paths are the loaded-files entries, so each can be requested again.
func (e *Extractor) Locations(path string) (string, error) {
	s, err := e.open(path)
	if err != nil {
		return "", err
	}
	pkg := s.Root()
	out := []string{path}
	for _, name := range pkg.AdditionalPackagesToCook {
		if _, err := s.sibling(name); err != nil {
			e.Logger.Debug("additional package skipped", "package", name, "err", err)
			continue
		}
		loaded, _ := s.lookup(name)
		out = append(out, loaded)
	}
	return EncodeNames(out), nil
}

// StaticMeshNames lists the leaf names of the static meshes in a package.
func (e *Extractor) StaticMeshNames(path string) (string, error) {
	s, err := e.open(path)
	if err != nil {
		return "", err
	}
	var names []string
	for _, exp := range FindByClass(s.Root(), upk.ClassStaticMesh) {
		names = append(names, leafName(exp.InstancedFullPath()))
	}
	return EncodeNames(names), nil
}

// ExportRequest names one static mesh and where its files go.
type ExportRequest struct {
	Package string
	Mesh    string

	// ExporterPath is the external exporter, Format its format switch.
	ExporterPath string
	Format       string
	OutDir       string
	TexturesDir  string
}

// ExportStaticMesh exports the first static mesh whose leaf name is
// req.Mesh and returns its material sections. Textures are written before
// it returns; the mesh file itself may still be in progress when an external
// exporter is used.
func (e *Extractor) ExportStaticMesh(req ExportRequest) (string, error) {
	s, err := e.open(req.Package)
	if err != nil {
		return "", err
	}
	exp, ok := FindByNameSuffix(FindByClass(s.Root(), upk.ClassStaticMesh), req.Mesh)
	if !ok {
		e.Logger.Debug("static mesh not found", "package", req.Package, "mesh", req.Mesh, "err", ErrAssetNotFound)
		return "", nil
	}
	sm, _ := exp.Object.(*upk.StaticMesh)
	var recs []MaterialRecord
	if sm != nil {
		var tw *TextureWriter
		if req.TexturesDir != "" {
			tw = NewTextureWriter(req.TexturesDir, e.TextureFormat)
		}
		recs = s.ExtractMaterials(exp.FileRef(), sm.Materials, tw)
	} else {
		e.Logger.Debug("static mesh not decoded", "mesh", exp.InstancedFullPath(), "err", upk.ErrNotDecoded)
	}

	tool := req.ExporterPath
	if tool == "" {
		tool = e.ExporterPath
	}
	// Materials are extracted above so the MST writer can embed them; an
	// external tool is still started detached and not awaited.
	job := &MeshJob{
		PackageFile: exp.FileRef().FilePath,
		Export:      exp,
		Mesh:        sm,
		OutDir:      req.OutDir,
		Materials:   recs,
	}
	if err := NewMeshExporter(req.Format, tool, e.Launcher).ExportMesh(job); err != nil {
		e.Logger.Warn("mesh export not started", "mesh", req.Mesh, "format", req.Format, "err", err)
	}
	return EncodeMaterials(recs), nil
}

// Actors lists the static mesh actors of the package's level.
func (e *Extractor) Actors(path string) (string, error) {
	s, err := e.open(path)
	if err != nil {
		return "", err
	}
	return EncodeActors(s.Placements()), nil
}

// Bones lists the reference skeleton of the first skeletal mesh named name.
func (e *Extractor) Bones(path, name string) (string, error) {
	s, err := e.open(path)
	if err != nil {
		return "", err
	}
	exp, ok := FindByNameSuffix(FindByClass(s.Root(), upk.ClassSkeletalMesh), name)
	if !ok {
		e.Logger.Debug("skeletal mesh not found", "package", path, "name", name, "err", ErrAssetNotFound)
		return "", nil
	}
	sk, ok := exp.Object.(*upk.SkeletalMesh)
	if !ok {
		e.Logger.Debug("skeletal mesh not decoded", "name", name, "err", upk.ErrNotDecoded)
		return "", nil
	}
	names := make([]string, len(sk.RefSkeleton))
	for i, b := range sk.RefSkeleton {
		names[i] = b.Name
	}
	return EncodeNames(names), nil
}

// Animations merges and lists every animation sequence of a package.
func (e *Extractor) Animations(path string) (string, error) {
	s, err := e.open(path)
	if err != nil {
		return "", err
	}
	var anims []Animation
	for _, exp := range FindByClass(s.Root(), upk.ClassAnimSequence) {
		seq, ok := exp.Object.(*upk.AnimSequence)
		if !ok {
			e.Logger.Debug("animation not decoded", "anim", exp.InstancedFullPath(), "err", upk.ErrNotDecoded)
			continue
		}
		anims = append(anims, Animation{
			Name:   leafName(exp.InstancedFullPath()),
			Tracks: SequenceTracks(seq),
		})
	}
	return EncodeAnimations(anims), nil
}
