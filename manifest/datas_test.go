package manifest_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/justengel/resman"
	"github.com/justengel/resman/internal/testutil"
	"github.com/justengel/resman/manifest"
	"github.com/justengel/resman/reader"
)

func TestInstallManifest(t *testing.T) {
	tree := testutil.StandardTree(t)
	rd := reader.NewOS(tree.Root())

	m := resman.NewManager(resman.WithReader(rd))
	m.Register("check_lib", "rsc.txt")
	m.Register("check_lib.check_sub", "rsc2.txt")
	m.RegisterData([]byte{0x00}, "check_lib", "inline.bin")

	// All walks newest-first, so the most recent registration leads.
	datas := manifest.InstallManifest(m, false)
	require.Len(t, datas, 2, "inline resources are not file backed")
	require.Equal(t, manifest.Data{
		Source: tree.Path("check_lib/check_sub/rsc2.txt"),
		Dest:   "check_lib/check_sub/rsc2.txt",
	}, datas[0])
	require.Equal(t, manifest.Data{
		Source: tree.Path("check_lib/rsc.txt"),
		Dest:   "check_lib/rsc.txt",
	}, datas[1])
}

func TestInstallManifestUnaffectedByPriorReads(t *testing.T) {
	tree := testutil.StandardTree(t)
	rd := reader.NewOS(tree.Root())

	m := resman.NewManager(resman.WithReader(rd))
	res := m.Register("check_lib", "rsc.txt")

	// Reading the payload first must not drop the resource from the
	// install manifest.
	_, err := res.Bytes()
	require.NoError(t, err)

	datas := manifest.InstallManifest(m, false)
	require.Len(t, datas, 1)
	require.Equal(t, "check_lib/rsc.txt", datas[0].Dest)
}

func TestInstallManifestDestDirs(t *testing.T) {
	tree := testutil.StandardTree(t)
	rd := reader.NewOS(tree.Root())

	m := resman.NewManager(resman.WithReader(rd))
	m.Register("check_lib.check_sub", "rsc2.txt")
	m.Register("check_lib.check_sub", "edit-cut.png")

	datas := manifest.InstallManifest(m, true)
	require.Len(t, datas, 2)
	for _, d := range datas {
		require.Equal(t, "check_lib/check_sub", d.Dest)
	}
}

func TestInstallManifestDeduplicates(t *testing.T) {
	tree := testutil.StandardTree(t)
	rd := reader.NewOS(tree.Root())

	m := resman.NewManager(resman.WithReader(rd))
	m.Register("check_lib", "rsc.txt")
	m.Register("check_lib", "rsc.txt", resman.WithAlias(resman.AliasName))

	linked := resman.NewManager(resman.WithReader(rd))
	linked.Register("check_lib", "rsc.txt")
	m.AddLinked(linked)

	datas := manifest.InstallManifest(m, false)
	require.Len(t, datas, 1, "identical (source, dest) pairs collapse")
}

func TestInstallManifestIncludesLinked(t *testing.T) {
	tree := testutil.StandardTree(t)
	rd := reader.NewOS(tree.Root())

	m := resman.NewManager(resman.WithReader(rd))
	m.Register("check_lib", "rsc.txt")

	linked := resman.NewManager(resman.WithReader(rd))
	linked.Register("check_lib.check_sub", "edit-cut.png")
	m.AddLinked(linked)

	datas := manifest.InstallManifest(m, false)
	require.Len(t, datas, 2)
	require.Equal(t, "check_lib/check_sub/edit-cut.png", datas[1].Dest)
}

func TestFindPackageDatas(t *testing.T) {
	tree := testutil.NewTree(t).
		File("check_lib/rsc.txt", "rsc.txt\n").
		File("check_lib/helper.go", "package check_lib\n").
		File("check_lib/check_sub/rsc2.txt", "rsc2.txt\n")
	rd := reader.NewOS(tree.Root())

	datas, err := manifest.FindPackageDatas(rd, "check_lib", nil)
	require.NoError(t, err)
	require.Equal(t, []manifest.Data{
		{Source: tree.Path("check_lib/check_sub/rsc2.txt"), Dest: "check_lib/check_sub"},
		{Source: tree.Path("check_lib/rsc.txt"), Dest: "check_lib"},
	}, datas, "walk order is lexical; .go files are excluded by default")
}

func TestFindPackageDatasSkipsCacheDirs(t *testing.T) {
	tree := testutil.NewTree(t).
		File("check_lib/rsc.txt", "rsc.txt\n").
		File("check_lib/__pycache__/cached.dat", "stale\n").
		File("check_lib/.git/config", "[core]\n")
	rd := reader.NewOS(tree.Root())

	datas, err := manifest.FindPackageDatas(rd, "check_lib", nil)
	require.NoError(t, err)
	require.Equal(t, []manifest.Data{
		{Source: tree.Path("check_lib/rsc.txt"), Dest: "check_lib"},
	}, datas, "cache and VCS directories are never descended into")
}

func TestFindPackageDatasCustomExcludes(t *testing.T) {
	tree := testutil.NewTree(t).
		File("check_lib/rsc.txt", "rsc.txt\n").
		File("check_lib/notes.md", "# notes\n")
	rd := reader.NewOS(tree.Root())

	datas, err := manifest.FindPackageDatas(rd, "check_lib", []string{".txt"})
	require.NoError(t, err)
	require.Len(t, datas, 1)
	require.Equal(t, tree.Path("check_lib/notes.md"), datas[0].Source)
}

func TestFindPackageDatasVirtualFS(t *testing.T) {
	rd := reader.NewFS()
	rd.RegisterPackage("bundle", fstest.MapFS{
		"logo.png": {Data: []byte{0x89, 0x50}},
	})

	datas, err := manifest.FindPackageDatas(rd, "bundle", nil)
	require.NoError(t, err)
	require.Len(t, datas, 1)
	require.Equal(t, "bundle", datas[0].Dest)

	// Virtual entries materialize as temp copies that live until Shutdown.
	require.FileExists(t, datas[0].Source)
	resman.Shutdown()
	require.NoFileExists(t, datas[0].Source)
}

func TestFindPackageDatasUnknownPackage(t *testing.T) {
	rd := reader.NewFS()
	_, err := manifest.FindPackageDatas(rd, "missing_pkg", nil)
	require.Error(t, err)
	require.ErrorContains(t, err, "missing_pkg")
}
