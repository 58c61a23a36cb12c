package upk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Opener opens a package file and returns its decoded objects. Every call
// returns a fresh, independent package.
type Opener interface {
	Open(path string) (*Package, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(path string) (*Package, error)

func (f OpenerFunc) Open(path string) (*Package, error) { return f(path) }

// Dump file suffixes written by the decoding front-end.
const (
	DumpSuffix           = ".json"
	CompressedDumpSuffix = ".json.zst"
)

// PackageFileName maps a dump file name to the package file name it stands
// for ("BIOA_NOR.pcc.json.zst" -> "BIOA_NOR.pcc").
func PackageFileName(name string) (string, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, CompressedDumpSuffix):
		return name[:len(name)-len(CompressedDumpSuffix)], true
	case strings.HasSuffix(lower, DumpSuffix):
		return name[:len(name)-len(DumpSuffix)], true
	}
	return "", false
}

// DumpOpener reads packages from JSON dumps, optionally zstd compressed.
type DumpOpener struct{}

func (DumpOpener) Open(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package %s: %w", path, err)
	}
	if strings.HasSuffix(strings.ToLower(path), CompressedDumpSuffix) {
		data, err = decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress package %s: %w", path, err)
		}
	}
	pkg, err := DecodeDump(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode package %s: %w", path, err)
	}
	if pkg.FilePath == "" {
		if name, ok := PackageFileName(path); ok {
			pkg.FilePath = name
		} else {
			pkg.FilePath = path
		}
	}
	return pkg, nil
}

func decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer decoder.Close()
	return io.ReadAll(decoder)
}

type dumpExport struct {
	Export
	Data json.RawMessage `json:"data,omitempty"`
}

type dumpPackage struct {
	FilePath                 string        `json:"filePath,omitempty"`
	Game                     string        `json:"game"`
	AdditionalPackagesToCook []string      `json:"additionalPackagesToCook,omitempty"`
	Imports                  []*Import     `json:"imports"`
	Exports                  []*dumpExport `json:"exports"`
	Level                    *Level        `json:"level,omitempty"`
}

// DecodeDump reads one package dump. Payloads that fail to decode leave the
// export without an Object rather than failing the package.
func DecodeDump(r io.Reader) (*Package, error) {
	var d dumpPackage
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	pkg := &Package{
		FilePath:                 d.FilePath,
		Game:                     d.Game,
		AdditionalPackagesToCook: d.AdditionalPackagesToCook,
		Imports:                  d.Imports,
		Level:                    d.Level,
		Exports:                  make([]*Export, len(d.Exports)),
	}
	for i, de := range d.Exports {
		exp := de.Export
		if len(de.Data) > 0 {
			exp.Object = decodeObject(exp.ClassName, de.Data)
		}
		pkg.Exports[i] = &exp
	}
	pkg.link()
	return pkg, nil
}

func newObject(class string) Object {
	switch strings.ToLower(class) {
	case "staticmesh":
		return &StaticMesh{}
	case "skeletalmesh":
		return &SkeletalMesh{}
	case "animsequence":
		return &AnimSequence{}
	case "material", "materialinstanceconstant":
		return &Material{}
	case "staticmeshactor":
		return &StaticMeshActor{}
	case "staticmeshcomponent":
		return &StaticMeshComponent{}
	case "texture2d", "texturecube", "lightmaptexture2d", "shadowmaptexture2d", "textureflipbook":
		return &Texture2D{}
	}
	return nil
}

func decodeObject(class string, data json.RawMessage) Object {
	obj := newObject(class)
	if obj == nil {
		return nil
	}
	if err := json.Unmarshal(data, obj); err != nil {
		return nil
	}
	if mat, ok := obj.(*Material); ok {
		for i := range mat.Expressions {
			mat.Expressions[i].Kind = ExpressionKindOf(mat.Expressions[i].Class)
		}
	}
	return obj
}
