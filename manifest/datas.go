// Package manifest bridges the resource registry and build tooling: it
// exports install manifests (source path → install path pairs) for packaging
// a registry's files alongside an executable, and loads registries from
// declarative YAML files.
package manifest

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/justengel/resman"
	"github.com/justengel/resman/internal/log"
	"github.com/justengel/resman/reader"
)

// Data is one install-manifest entry: a concrete source file and where it
// installs relative to the bundle root.
type Data struct {
	Source string
	Dest   string
}

// InstallManifest materializes every file-backed resource reachable from m,
// including linked managers, and emits (source, dest) pairs for build
// tooling. With useDestDirs the dest is the resource's install directory;
// otherwise it is the literal install file path. Duplicate pairs are
// suppressed.
func InstallManifest(m *resman.Manager, useDestDirs bool) []Data {
	var datas []Data
	seen := make(map[Data]bool)

	for _, res := range m.All(true, false) {
		if !res.IsFileBacked() {
			continue
		}
		dest := res.PackagePath()
		if useDestDirs {
			dest = path.Dir(dest)
		}
		d := Data{Source: res.AsFile(), Dest: dest}
		if seen[d] {
			continue
		}
		seen[d] = true
		datas = append(datas, d)
	}

	log.Debug(log.CatManifest, "collected install manifest", "entries", len(datas))
	return datas
}

// DefaultExcludeExts lists extensions skipped by FindPackageDatas: source
// code and build metadata are not data files.
var DefaultExcludeExts = []string{".go", ".s", ".mod", ".sum"}

// excludedDirs are cache and VCS directories FindPackageDatas never
// descends into.
var excludedDirs = map[string]bool{
	"__pycache__": true,
	".git":        true,
	".hg":         true,
	".svn":        true,
}

// FindPackageDatas walks an entire package tree and emits an install pair
// for every data file, skipping excluded extensions (DefaultExcludeExts when
// nil) and never descending into cache or VCS directories. Dest is the
// file's install directory under the package name. Subdirectories are
// included; duplicate pairs are suppressed.
func FindPackageDatas(rd reader.Reader, pkg string, excludeExts []string) ([]Data, error) {
	if excludeExts == nil {
		excludeExts = DefaultExcludeExts
	}
	excluded := make(map[string]bool, len(excludeExts))
	for _, ext := range excludeExts {
		excluded[ext] = true
	}

	fsys, err := rd.Open(pkg)
	if err != nil {
		return nil, fmt.Errorf("find datas for %s: %w", pkg, err)
	}

	pkgPath := reader.PackagePath(pkg)
	var datas []Data
	seen := make(map[Data]bool)

	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if excludedDirs[d.Name()] && p != "." {
				return fs.SkipDir
			}
			return nil
		}
		if excluded[path.Ext(d.Name())] {
			return nil
		}

		source, release, err := rd.Materialize(pkg, p)
		if err != nil {
			// Unmaterializable entries are skipped, not fatal: the walk is
			// collecting whatever can be bundled.
			log.Debug(log.CatManifest, "skipping unmaterializable entry", "package", pkg, "name", p, "error", err)
			return nil
		}
		// Install manifests outlive this call; the copies must too.
		resman.RegisterRelease(release)

		data := Data{Source: source, Dest: path.Dir(path.Join(pkgPath, p))}
		if !seen[data] {
			seen[data] = true
			datas = append(datas, data)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find datas for %s: %w", pkg, err)
	}
	return datas, nil
}
