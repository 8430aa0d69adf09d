package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupWorkspace(t testing.TB) string {
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module gdp-etl\n\ngo 1.22.2\n"), 0600)
	require.NoError(t, err)

	nested := filepath.Join(root, "services", "economies")
	require.NoError(t, os.MkdirAll(nested, 0777))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(wd) })

	// t.TempDir may sit behind a symlink
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	return resolved
}

func TestGetWorkspaceRoot(t *testing.T) {
	root := setupWorkspace(t)

	found, err := GetWorkspaceRoot()
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	require.Equal(t, root, resolved)
}

func TestResolvePath(t *testing.T) {
	root := setupWorkspace(t)

	path, err := ResolvePath(filepath.Join("<dev_state>", "World_Economies.db"))
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(filepath.Dir(path))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state"), resolved)
	require.Equal(t, "World_Economies.db", filepath.Base(path))

	path, err = ResolvePath("plain/path.db")
	require.NoError(t, err)
	require.Equal(t, "plain/path.db", path)
}
