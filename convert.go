package pccasset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flywave/go-pccasset/upk"
)

// Mesh export formats. MST is written in-process; the rest are handed to
// the external exporter.
const (
	MST  = "mst"
	PSK  = "psk"
	GLTF = "gltf"
	MD5  = "md5"
	OBJ  = "obj"
)

// MeshJob is everything an exporter may need about one static mesh.
type MeshJob struct {
	PackageFile string
	Export      *upk.Export
	Mesh        *upk.StaticMesh
	OutDir      string
	Materials   []MaterialRecord
}

// MeshExporter writes the geometry of a static mesh. Implementations may
// return before the mesh file exists.
type MeshExporter interface {
	ExportMesh(job *MeshJob) error
}

// NewMeshExporter picks the exporter for ext.
func NewMeshExporter(ext, toolPath string, launcher Launcher) MeshExporter {
	switch strings.ToLower(ext) {
	case MST:
		return &MstExporter{}
	}
	return &ToolExporter{Ext: strings.TrimPrefix(ext, "-"), ToolPath: toolPath, Launcher: launcher}
}

var errNoExporter = errors.New("no external exporter configured")

// ToolExporter starts the external exporter and does not wait for it:
// the mesh file appears some time after ExportMesh returns.
type ToolExporter struct {
	Ext      string
	ToolPath string
	Launcher Launcher
}

// Args is the exporter command line for job.
func (t *ToolExporter) Args(job *MeshJob) []string {
	return []string{
		"-export",
		"-" + t.Ext,
		"-out=" + job.OutDir,
		job.PackageFile,
		job.Export.ObjectName,
		job.Export.ClassName,
	}
}

func (t *ToolExporter) ExportMesh(job *MeshJob) error {
	if t.ToolPath == "" || t.Launcher == nil {
		return errNoExporter
	}
	if err := t.Launcher.Launch(t.ToolPath, t.Args(job)...); err != nil {
		return fmt.Errorf("launch %s: %w", t.ToolPath, err)
	}
	return nil
}
