package reader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justengel/resman/internal/log"
	"github.com/justengel/resman/internal/memocache"
)

// listingTTL bounds how long directory listings are memoized. Listings are
// metadata used for scans and sibling enumeration; a short TTL keeps them
// fresh without re-walking the disk on every lookup.
const listingTTL = 30 * time.Second

// FSReader resolves package identifiers against explicitly registered
// filesystems and a list of OS search roots. Dot-separated package segments
// map to nested directories, so package "check_lib.check_sub" under root "."
// resolves to "./check_lib/check_sub".
type FSReader struct {
	mu       sync.RWMutex
	packages map[string]fs.FS
	osDirs   map[string]string
	roots    []string

	listings *memocache.Cache[[]string]
}

// NewOS creates a reader that resolves packages against the given OS
// directory roots, searched in order. With no roots, the current working
// directory is used.
func NewOS(roots ...string) *FSReader {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	return &FSReader{
		packages: make(map[string]fs.FS),
		osDirs:   make(map[string]string),
		roots:    roots,
		listings: memocache.New[[]string]("listings", memocache.DefaultExpiration, memocache.DefaultCleanupInterval),
	}
}

// NewFS creates a reader with no OS roots; every package must be registered
// explicitly. Used for embed.FS bundles and tests.
func NewFS() *FSReader {
	return &FSReader{
		packages: make(map[string]fs.FS),
		osDirs:   make(map[string]string),
		listings: memocache.New[[]string]("listings", memocache.DefaultExpiration, memocache.DefaultCleanupInterval),
	}
}

// RegisterPackage binds a package identifier to a filesystem. Explicit
// registrations win over OS root resolution.
func (r *FSReader) RegisterPackage(pkg string, fsys fs.FS) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkg] = fsys
	r.listings.Delete(pkg)
}

// RegisterPackageDir binds a package identifier to an OS directory.
// Materialize can hand out paths inside the directory without copying.
func (r *FSReader) RegisterPackageDir(pkg, dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[pkg] = os.DirFS(dir)
	r.osDirs[pkg] = dir
	r.listings.Delete(pkg)
}

// PackagePath converts a dot-separated package identifier to a
// slash-separated relative path.
func PackagePath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// resolve returns the package filesystem and, when OS-backed, its directory.
func (r *FSReader) resolve(pkg string) (fs.FS, string, error) {
	r.mu.RLock()
	fsys, ok := r.packages[pkg]
	dir := r.osDirs[pkg]
	roots := r.roots
	r.mu.RUnlock()

	if ok {
		return fsys, dir, nil
	}

	rel := filepath.FromSlash(PackagePath(pkg))
	for _, root := range roots {
		candidate := filepath.Join(root, rel)
		info, err := os.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}
		return os.DirFS(candidate), candidate, nil
	}
	return nil, "", fmt.Errorf("package %q not found", pkg)
}

// Exists reports whether (pkg, name) resolves to a non-directory entry.
// Never fails; resolution errors degrade to false.
func (r *FSReader) Exists(pkg, name string) bool {
	fsys, _, err := r.resolve(pkg)
	if err != nil {
		return false
	}
	info, err := fs.Stat(fsys, normalizeName(name))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsDir reports whether name (or the package root when name is empty) is a
// directory. Never fails.
func (r *FSReader) IsDir(pkg, name string) bool {
	fsys, _, err := r.resolve(pkg)
	if err != nil {
		return false
	}
	target := "."
	if name != "" {
		target = normalizeName(name)
	}
	info, err := fs.Stat(fsys, target)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ReadBytes returns the raw contents of the named resource.
func (r *FSReader) ReadBytes(pkg, name string) ([]byte, error) {
	fsys, _, err := r.resolve(pkg)
	if err != nil {
		return nil, err
	}
	b, err := fs.ReadFile(fsys, normalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", PackagePath(pkg), name, err)
	}
	return b, nil
}

// ReadText returns the decoded contents of the named resource.
func (r *FSReader) ReadText(pkg, name string, opts TextOptions) (string, error) {
	b, err := r.ReadBytes(pkg, name)
	if err != nil {
		return "", err
	}
	return DecodeText(b, opts)
}

// List returns the names of the package's immediate entries. Results are
// memoized briefly since scans and sibling listings hit the same packages
// repeatedly.
func (r *FSReader) List(pkg string) ([]string, error) {
	return r.listings.GetOrFill(pkg, listingTTL, func() ([]string, error) {
		fsys, _, err := r.resolve(pkg)
		if err != nil {
			return nil, err
		}
		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", PackagePath(pkg), err)
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		return names, nil
	})
}

// Open returns the package root as an fs.FS for directory walking.
func (r *FSReader) Open(pkg string) (fs.FS, error) {
	fsys, _, err := r.resolve(pkg)
	return fsys, err
}

// Materialize produces a real filesystem path for the named resource.
// OS-backed packages return the file in place with a no-op release; virtual
// filesystems are copied into a per-call temp directory that the release
// func removes.
func (r *FSReader) Materialize(pkg, name string) (string, func(), error) {
	fsys, dir, err := r.resolve(pkg)
	if err != nil {
		return "", nil, err
	}

	rel := normalizeName(name)
	if dir != "" {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if info, statErr := os.Stat(p); statErr == nil && !info.IsDir() {
			return p, func() {}, nil
		}
		return "", nil, fmt.Errorf("materialize %s/%s: %w", PackagePath(pkg), name, fs.ErrNotExist)
	}

	b, err := fs.ReadFile(fsys, rel)
	if err != nil {
		return "", nil, fmt.Errorf("materialize %s/%s: %w", PackagePath(pkg), name, err)
	}

	tmpDir := filepath.Join(os.TempDir(), "resman-"+uuid.NewString())
	target := filepath.Join(tmpDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", nil, fmt.Errorf("materialize %s/%s: %w", PackagePath(pkg), name, err)
	}
	if err := os.WriteFile(target, b, 0o600); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", nil, fmt.Errorf("materialize %s/%s: %w", PackagePath(pkg), name, err)
	}

	log.Debug(log.CatReader, "materialized virtual resource", "package", pkg, "name", name, "path", target)
	release := func() { _ = os.RemoveAll(tmpDir) }
	return target, release, nil
}

// normalizeName converts a resource name to an fs.FS-compatible path.
func normalizeName(name string) string {
	return path.Clean(strings.ReplaceAll(name, "\\", "/"))
}
