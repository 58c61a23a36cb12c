package pccasset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mst "github.com/flywave/go-mst"
	vec3d "github.com/flywave/go3d/float64/vec3"

	"github.com/flywave/go-pccasset/upk"
)

// MstExporter writes <OutDir>/<package>/StaticMesh3/<mesh>.mst in-process.
type MstExporter struct{}

// MstPath is where job's mesh is written.
func MstPath(job *MeshJob) string {
	base := filepath.Base(job.PackageFile)
	if name, ok := upk.PackageFileName(base); ok {
		base = name
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(job.OutDir, base, "StaticMesh3", job.Export.ObjectName+".mst")
}

func (e *MstExporter) ExportMesh(job *MeshJob) error {
	if job.Mesh == nil || job.Mesh.Geometry == nil {
		return fmt.Errorf("static mesh %s has no geometry: %w", job.Export.ObjectName, ErrDecodeUnavailable)
	}
	mesh, _, err := BuildMst(job.Mesh.Geometry, job.Materials)
	if err != nil {
		return err
	}
	path := MstPath(job)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	mst.MeshMarshal(f, mesh)
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return nil
}

// BuildMst converts decoded geometry to an MST mesh with one face group per
// section, and returns its bounding box as min xyz, max xyz.
func BuildMst(geom *upk.MeshGeometry, mats []MaterialRecord) (*mst.Mesh, *[6]float64, error) {
	mesh := mst.NewMesh()
	ext := vec3d.MinBox
	meshNode := &mst.MeshNode{}
	meshNode.Vertices = append(meshNode.Vertices, geom.Positions...)
	if len(geom.TexCoords) == len(geom.Positions) {
		meshNode.TexCoords = append(meshNode.TexCoords, geom.TexCoords...)
	}
	for i := range geom.Positions {
		p := &geom.Positions[i]
		ext.Extend(&vec3d.T{float64(p[0]), float64(p[1]), float64(p[2])})
	}

	nverts := uint32(len(geom.Positions))
	slots := len(mats)
	for _, sec := range geom.Sections {
		if len(sec.Indices)%3 != 0 {
			return nil, nil, fmt.Errorf("section %d: %d indices is not a triangle list", sec.MaterialIndex, len(sec.Indices))
		}
		mtg := &mst.MeshTriangle{Batchid: int32(sec.MaterialIndex)}
		for i := 0; i < len(sec.Indices); i += 3 {
			f := [3]uint32{sec.Indices[i], sec.Indices[i+1], sec.Indices[i+2]}
			if f[0] >= nverts || f[1] >= nverts || f[2] >= nverts {
				return nil, nil, fmt.Errorf("section %d: index out of range", sec.MaterialIndex)
			}
			mtg.Faces = append(mtg.Faces, &mst.Face{Vertex: f})
		}
		meshNode.FaceGroup = append(meshNode.FaceGroup, mtg)
		slots = max(slots, sec.MaterialIndex+1)
	}

	if len(geom.Normals) == len(geom.Positions) {
		meshNode.Normals = append(meshNode.Normals, geom.Normals...)
	} else {
		meshNode.ReComputeNormal()
	}
	mesh.Nodes = append(mesh.Nodes, meshNode)

	for i := 0; i < slots; i++ {
		var tex *TextureRef
		if i < len(mats) {
			tex = diffuseTexture(&mats[i])
		}
		if tex == nil {
			mesh.Materials = append(mesh.Materials, &mst.BaseMaterial{Color: [3]byte{255, 255, 255}})
			continue
		}
		texMtl := &mst.TextureMaterial{}
		texMtl.Color = [3]byte{255, 255, 255}
		t, err := mstTexture(tex.Image, i)
		if err == nil {
			texMtl.Texture = t
		}
		mesh.Materials = append(mesh.Materials, texMtl)
	}
	return mesh, ext.Array(), nil
}

// diffuseTexture picks the texture parameter whose name mentions diffuse,
// falling back to the first texture of the material.
func diffuseTexture(rec *MaterialRecord) *TextureRef {
	var first *TextureRef
	for _, p := range rec.Parameters {
		tp, ok := p.(*TextureParameter)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(tp.Name), "diff") {
			return &tp.Texture
		}
		if first == nil {
			first = &tp.Texture
		}
	}
	if first == nil && len(rec.Textures) > 0 {
		first = &rec.Textures[0]
	}
	return first
}
