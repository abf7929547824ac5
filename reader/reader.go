// Package reader supplies resource bytes to the registry engine.
//
// A Reader resolves a (package, name) pair to raw bytes, decoded text, an
// existence check, a directory listing, or a scoped on-disk materialization.
// The package identifier is a dot-separated logical namespace ("check_lib",
// "check_lib.check_sub") that maps onto a directory tree or any fs.FS,
// including embed.FS bundles compiled into the binary.
package reader

import (
	"io/fs"
)

// Reader is the byte-source capability consumed by the registry engine.
// Implementations must be cheap for metadata calls; Exists and IsDir never
// report errors, they degrade to false.
type Reader interface {
	// Exists reports whether (pkg, name) resolves to a non-directory entry.
	Exists(pkg, name string) bool

	// IsDir reports whether name (or the package root when name is empty)
	// is a directory.
	IsDir(pkg, name string) bool

	// ReadBytes returns the raw contents of the named resource.
	ReadBytes(pkg, name string) ([]byte, error)

	// ReadText returns the decoded contents of the named resource.
	ReadText(pkg, name string, opts TextOptions) (string, error)

	// List returns the names of the package's immediate entries.
	// Directories are included; callers filter with IsDir as needed.
	List(pkg string) ([]string, error)

	// Open returns the package root as an fs.FS for directory walking.
	Open(pkg string) (fs.FS, error)

	// Materialize produces a real filesystem path for the named resource.
	// The release func undoes any temp-file copy and must be called exactly
	// once; for resources that already live on disk it is a no-op.
	Materialize(pkg, name string) (path string, release func(), err error)
}
