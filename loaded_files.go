package pccasset

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/flywave/go-pccasset/upk"
)

// PackageExtensions are the file suffixes registered in a loaded-files index.
var PackageExtensions = []string{".pcc", ".sfm", ".upk", ".u"}

// LoadedFiles maps lower-cased package file names to full paths, the set of
// packages a game installation loads.
type LoadedFiles map[string]string

// Lookup finds a package by file name, ignoring case.
func (lf LoadedFiles) Lookup(name string) (string, bool) {
	if lf == nil {
		return "", false
	}
	p, ok := lf[strings.ToLower(name)]
	return p, ok
}

// Add registers path under its base name, replacing an earlier entry.
func (lf LoadedFiles) Add(path string) {
	name := filepath.Base(path)
	if pkgName, ok := upk.PackageFileName(name); ok {
		name = pkgName
	}
	lf[strings.ToLower(name)] = path
}

func isPackageFile(name string) bool {
	if pkgName, ok := upk.PackageFileName(name); ok {
		name = pkgName
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range PackageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ScanLoadedFiles walks dirs in order. Files found in a later directory
// override same-named files of an earlier one, the way DLC folders shadow
// the base game.
func ScanLoadedFiles(dirs ...string) (LoadedFiles, error) {
	lf := LoadedFiles{}
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isPackageFile(d.Name()) {
				return nil
			}
			lf.Add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return lf, nil
}

// GameIndex holds the loaded-files index of each known game.
type GameIndex map[string]LoadedFiles

// Files returns the index for game, nil when the game is unknown.
func (g GameIndex) Files(game string) LoadedFiles {
	return g[strings.ToLower(game)]
}

// ScanGames builds a GameIndex from game id -> install directories.
func ScanGames(games map[string][]string) (GameIndex, error) {
	idx := GameIndex{}
	for game, dirs := range games {
		lf, err := ScanLoadedFiles(dirs...)
		if err != nil {
			return nil, err
		}
		idx[strings.ToLower(game)] = lf
	}
	return idx, nil
}
