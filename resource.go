package resman

import (
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/justengel/resman/internal/log"
	"github.com/justengel/resman/reader"
)

// aliasMode selects how a resource's lookup alias is derived.
type aliasMode int

const (
	aliasPackagePath aliasMode = iota // default: full package path
	aliasName                         // the relative name, extension kept
	aliasStem                         // the relative name, extension stripped
	aliasExplicit                     // caller-supplied string
)

// Alias selects the lookup alias for a resource. The zero value derives the
// alias from the full package path.
type Alias struct {
	mode  aliasMode
	value string
}

// Alias sentinels. AliasName keeps the resource's relative name (extension
// included); AliasStem strips the extension.
var (
	AliasPackagePath = Alias{mode: aliasPackagePath}
	AliasName        = Alias{mode: aliasName}
	AliasStem        = Alias{mode: aliasStem}
)

// AliasString uses the given string as the alias verbatim.
func AliasString(s string) Alias {
	return Alias{mode: aliasExplicit, value: s}
}

// Resource is a named handle to one asset: a package identifier plus a
// relative name, optionally carrying inline data instead of a backing file.
// Resources are created through a Manager's Register methods or NewResource.
type Resource struct {
	pkg      string
	name     string
	rawAlias Alias
	metadata map[string]any

	// Inline payload, only set at registration for synthetic resources
	// without a backing package file.
	data    []byte
	text    string
	hasText bool
	extPath string

	// cached holds bytes produced by a prior read. Kept apart from the
	// inline payload so reading never changes what the resource is.
	cached []byte

	// owner is the first manager the resource was added to. A back-reference,
	// not ownership: the resource survives removal from the manager.
	owner *Manager

	// Materialization cache, written at most once per process.
	matOnce sync.Once
	matPath string
}

// NewResource creates a resource handle without registering it anywhere.
func NewResource(pkg, name string, opts ...ResourceOption) *Resource {
	r := &Resource{pkg: pkg, name: name}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Package returns the dot-separated package identifier.
func (r *Resource) Package() string { return r.pkg }

// Name returns the relative name within the package.
func (r *Resource) Name() string { return r.name }

// Owner returns the first manager this resource was registered into, or nil.
func (r *Resource) Owner() *Manager { return r.owner }

// Metadata returns the resource's open metadata bag. May be nil.
func (r *Resource) Metadata() map[string]any { return r.metadata }

// PackagePath returns the package segments joined with the name using
// forward slashes; package dots become path separators. Never touches the
// filesystem.
func (r *Resource) PackagePath() string {
	name := normalizeSlashes(r.name)
	if r.pkg == "" {
		return name
	}
	if name == "" {
		return reader.PackagePath(r.pkg)
	}
	return reader.PackagePath(r.pkg) + "/" + name
}

// Alias returns the lookup alias derived from the raw alias and the name.
// Defaults to PackagePath. Never touches the filesystem.
func (r *Resource) Alias() string {
	switch r.rawAlias.mode {
	case aliasName:
		return normalizeSlashes(r.name)
	case aliasStem:
		name := normalizeSlashes(r.name)
		return strings.TrimSuffix(name, path.Ext(name))
	case aliasExplicit:
		return r.rawAlias.value
	default:
		return r.PackagePath()
	}
}

// Matches reports whether the key identifies this resource: true when the
// separator-normalized key equals either the alias or the package path.
func (r *Resource) Matches(key string) bool {
	key = normalizeSlashes(key)
	return key == r.Alias() || key == r.PackagePath()
}

// IsFileBacked reports whether the byte reader can see (package, name) as a
// non-directory entry. Synthetic resources holding inline bytes or text are
// not file-backed; resources carrying an external path are file-backed when
// that path exists. Never fails: errors degrade to false.
func (r *Resource) IsFileBacked() bool {
	if r.extPath != "" {
		info, err := os.Stat(r.extPath)
		return err == nil && !info.IsDir()
	}
	if r.data != nil || r.hasText {
		return false
	}
	return r.reader().Exists(r.pkg, r.name)
}

// Bytes returns the resource payload. Inline bytes are returned as-is and
// inline text is UTF-8 encoded; an external path is read from disk, degrading
// to the path string itself when unreadable. Otherwise the byte reader is
// consulted and the result cached for subsequent calls.
func (r *Resource) Bytes() ([]byte, error) {
	if r.data != nil {
		return r.data, nil
	}
	if r.hasText {
		return []byte(r.text), nil
	}
	if r.cached != nil {
		return r.cached, nil
	}
	if r.extPath != "" {
		b, err := os.ReadFile(r.extPath) //nolint:gosec // G304: caller-registered path
		if err != nil {
			// String coercion of the payload is the strategy of last resort.
			return []byte(r.extPath), nil
		}
		r.cached = b
		return b, nil
	}

	b, err := r.reader().ReadBytes(r.pkg, r.name)
	if err != nil {
		log.Debug(log.CatReader, "byte read failed", "package", r.pkg, "name", r.name, "error", err)
		return nil, &UnavailableError{Package: r.pkg, Name: r.name, Err: err}
	}
	r.cached = b
	return b, nil
}

// Text returns the payload decoded per opts. Inline text short-circuits
// decoding.
func (r *Resource) Text(opts reader.TextOptions) (string, error) {
	if r.hasText {
		return r.text, nil
	}
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	s, err := reader.DecodeText(b, opts)
	if err != nil {
		return "", &UnavailableError{Package: r.pkg, Name: r.name, Err: err}
	}
	return s, nil
}

// Siblings lists the names that live next to this resource: the parent
// directory's entries when the name is nested, the package's top-level
// contents otherwise. Enumeration is best-effort and returns an empty list
// on failure.
func (r *Resource) Siblings() []string {
	name := normalizeSlashes(r.name)
	parent := path.Dir(name)
	if parent == "." || !strings.Contains(name, "/") {
		names, err := r.reader().List(r.pkg)
		if err != nil {
			return nil
		}
		return names
	}

	fsys, err := r.reader().Open(r.pkg)
	if err != nil {
		return nil
	}
	entries, err := fs.ReadDir(fsys, parent)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// reader returns the owning manager's byte reader, or the package default.
func (r *Resource) reader() reader.Reader {
	if r.owner != nil && r.owner.reader != nil {
		return r.owner.reader
	}
	return DefaultReader()
}

// normalizeSlashes converts backslash separators to forward slashes so that
// alias and package-path comparison is separator-insensitive.
func normalizeSlashes(s string) string {
	return strings.ReplaceAll(s, "\\", "/")
}
