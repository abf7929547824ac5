package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/justengel/resman/internal/testutil"
)

func TestExists(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewOS(tree.Root())

	require.True(t, r.Exists("check_lib", "rsc.txt"))
	require.True(t, r.Exists("check_lib.check_sub", "rsc2.txt"))
	require.False(t, r.Exists("check_lib", "missing.txt"))
	require.False(t, r.Exists("no_such_pkg", "rsc.txt"))
	// Directories are not resources.
	require.False(t, r.Exists("check_lib", "check_sub"))
}

func TestIsDir(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewOS(tree.Root())

	require.True(t, r.IsDir("check_lib", ""))
	require.True(t, r.IsDir("check_lib", "check_sub"))
	require.False(t, r.IsDir("check_lib", "rsc.txt"))
	require.False(t, r.IsDir("no_such_pkg", ""))
}

func TestReadBytes(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewOS(tree.Root())

	b, err := r.ReadBytes("check_lib", "rsc.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("rsc.txt\n"), b)

	// Dotted package identifiers resolve to nested directories.
	b, err = r.ReadBytes("check_lib.check_sub", "rsc2.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("rsc2.txt\n"), b)

	_, err = r.ReadBytes("check_lib", "missing.txt")
	require.Error(t, err)
}

func TestReadBytesNestedName(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewOS(tree.Root())

	// Names may address files below the package root, with either separator.
	b, err := r.ReadBytes("check_lib", "check_sub/rsc2.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("rsc2.txt\n"), b)

	b, err = r.ReadBytes("check_lib", `check_sub\rsc2.txt`)
	require.NoError(t, err)
	require.Equal(t, []byte("rsc2.txt\n"), b)
}

func TestReadText(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewOS(tree.Root())

	txt, err := r.ReadText("check_lib", "rsc.txt", TextOptions{})
	require.NoError(t, err)
	require.Equal(t, "rsc.txt\n", txt)
}

func TestList(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewOS(tree.Root())

	names, err := r.List("check_lib")
	require.NoError(t, err)
	require.Contains(t, names, "rsc.txt")
	require.Contains(t, names, "check_sub")

	names, err = r.List("check_lib.check_sub")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"rsc2.txt", "edit-cut.png"}, names)

	_, err = r.List("no_such_pkg")
	require.Error(t, err)
}

func TestRegisterPackageFS(t *testing.T) {
	fsys := fstest.MapFS{
		"icon.png": &fstest.MapFile{Data: []byte("png-bytes")},
	}
	r := NewFS()
	r.RegisterPackage("virtual_pkg", fsys)

	require.True(t, r.Exists("virtual_pkg", "icon.png"))

	b, err := r.ReadBytes("virtual_pkg", "icon.png")
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), b)
}

func TestMaterializeOSBacked(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewOS(tree.Root())

	p, release, err := r.Materialize("check_lib", "rsc.txt")
	require.NoError(t, err)
	require.Equal(t, tree.Path("check_lib/rsc.txt"), p)

	// Release is a no-op for in-place files.
	release()
	_, err = os.Stat(p)
	require.NoError(t, err)
}

func TestMaterializeVirtualCopiesToTemp(t *testing.T) {
	fsys := fstest.MapFS{
		"img/icon.png": &fstest.MapFile{Data: []byte("png-bytes")},
	}
	r := NewFS()
	r.RegisterPackage("bundle", fsys)

	p, release, err := r.Materialize("bundle", "img/icon.png")
	require.NoError(t, err)
	require.True(t, strings.Contains(p, "resman-"), "temp path should carry the resman prefix: %s", p)
	require.Equal(t, "icon.png", filepath.Base(p))

	b, err := os.ReadFile(p) //nolint:gosec // test temp file
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), b)

	release()
	_, err = os.Stat(p)
	require.True(t, os.IsNotExist(err), "release should remove the temp copy")
}

func TestMaterializeMissing(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewOS(tree.Root())

	_, _, err := r.Materialize("check_lib", "missing.txt")
	require.Error(t, err)
}

func TestRegisterPackageDirMaterializesInPlace(t *testing.T) {
	tree := testutil.StandardTree(t)
	r := NewFS()
	r.RegisterPackageDir("lib", tree.Path("check_lib"))

	p, release, err := r.Materialize("lib", "rsc.txt")
	require.NoError(t, err)
	require.Equal(t, tree.Path("check_lib/rsc.txt"), p)
	release()
}
