// Package testutil provides test fixtures for the resolution engine:
// throwaway package trees written to a temp directory.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Tree builds a package directory layout rooted in a temp dir.
type Tree struct {
	t    *testing.T
	root string
}

// NewTree creates an empty fixture tree in a test temp directory.
func NewTree(t *testing.T) *Tree {
	t.Helper()
	return &Tree{t: t, root: t.TempDir()}
}

// Root returns the tree's root directory, suitable as a reader search root.
func (tr *Tree) Root() string {
	return tr.root
}

// File writes a file at the slash-separated relative path, creating parent
// directories as needed. Returns the tree for chaining.
func (tr *Tree) File(rel, content string) *Tree {
	tr.t.Helper()
	full := filepath.Join(tr.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		tr.t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		tr.t.Fatalf("write %s: %v", rel, err)
	}
	return tr
}

// Dir creates an empty directory at the slash-separated relative path.
func (tr *Tree) Dir(rel string) *Tree {
	tr.t.Helper()
	if err := os.MkdirAll(filepath.Join(tr.root, filepath.FromSlash(rel)), 0o750); err != nil {
		tr.t.Fatalf("mkdir %s: %v", rel, err)
	}
	return tr
}

// Path returns the absolute path of a file inside the tree.
func (tr *Tree) Path(rel string) string {
	return filepath.Join(tr.root, filepath.FromSlash(rel))
}

// StandardTree writes the canonical two-package fixture used across the
// engine tests:
//
//	check_lib/rsc.txt
//	check_lib/check_sub/rsc2.txt
//	check_lib/check_sub/edit-cut.png
func StandardTree(t *testing.T) *Tree {
	t.Helper()
	return NewTree(t).
		File("check_lib/rsc.txt", "rsc.txt\n").
		File("check_lib/check_sub/rsc2.txt", "rsc2.txt\n").
		File("check_lib/check_sub/edit-cut.png", "\x89PNG\r\n")
}
