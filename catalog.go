package pccasset

import (
	"strings"

	"github.com/flywave/go-pccasset/upk"
)

// FindByClass returns the exports of pkg whose class equals class, ignoring
// case, in package order.
func FindByClass(pkg *upk.Package, class string) []*upk.Export {
	var out []*upk.Export
	for _, exp := range pkg.Exports {
		if strings.EqualFold(exp.ClassName, class) {
			out = append(out, exp)
		}
	}
	return out
}

// FindByNameSuffix returns the first export whose instanced full path ends
// in the segment leaf. The comparison is case-sensitive.
func FindByNameSuffix(exps []*upk.Export, leaf string) (*upk.Export, bool) {
	for _, exp := range exps {
		if leafName(exp.InstancedFullPath()) == leaf {
			return exp, true
		}
	}
	return nil, false
}

// leafName is the last dot separated segment of path.
func leafName(path string) string {
	return path[strings.LastIndexByte(path, '.')+1:]
}
