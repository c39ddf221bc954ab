package adapter

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	m "leela.dev/pkg/leela/internal/model"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func walkFiles(t *testing.T, a *LocalSourceFSAdapter, root string, recursive bool) []string {
	t.Helper()

	var files []string

	err := a.Walk(context.Background(), m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)

		if !info.IsDir() {
			rel, relErr := filepath.Rel(root, path)
			require.NoError(t, relErr)
			files = append(files, rel)
		}

		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)

	return files
}

func TestLocalSourceFSAdapter_WalkRecursive(t *testing.T) {
	a := NewLocalSourceFSAdapter()
	root := t.TempDir()

	writeTree(t, root, map[string]string{
		"calc.go":         "package calc\n",
		"inner/helper.go": "package inner\n",
		"inner/deep/d.go": "package deep\n",
	})

	files := walkFiles(t, a, root, true)
	require.Equal(t, []string{"calc.go", filepath.Join("inner", "deep", "d.go"), filepath.Join("inner", "helper.go")}, files)
}

func TestLocalSourceFSAdapter_WalkNonRecursive(t *testing.T) {
	a := NewLocalSourceFSAdapter()
	root := t.TempDir()

	writeTree(t, root, map[string]string{
		"calc.go":         "package calc\n",
		"inner/helper.go": "package inner\n",
	})

	files := walkFiles(t, a, root, false)
	require.Equal(t, []string{"calc.go"}, files)
}

func TestLocalSourceFSAdapter_HashFile(t *testing.T) {
	a := NewLocalSourceFSAdapter()
	root := t.TempDir()

	writeTree(t, root, map[string]string{"a.go": "package a\n", "b.go": "package a\n", "c.go": "package c\n"})

	hashA, err := a.HashFile(context.Background(), m.Path(filepath.Join(root, "a.go")))
	require.NoError(t, err)
	require.Len(t, hashA, 64)

	hashB, err := a.HashFile(context.Background(), m.Path(filepath.Join(root, "b.go")))
	require.NoError(t, err)
	require.Equal(t, hashA, hashB)

	hashC, err := a.HashFile(context.Background(), m.Path(filepath.Join(root, "c.go")))
	require.NoError(t, err)
	require.NotEqual(t, hashA, hashC)
}

func TestLocalSourceFSAdapter_FindProjectRoot(t *testing.T) {
	a := NewLocalSourceFSAdapter()
	root := t.TempDir()

	writeTree(t, root, map[string]string{
		"go.mod":          "module example.com/proj\n",
		"calc/calc.go":    "package calc\n",
		"calc/sub/sub.go": "package sub\n",
	})

	found, err := a.FindProjectRoot(context.Background(), m.Path(filepath.Join(root, "calc", "sub", "sub.go")))
	require.NoError(t, err)
	require.Equal(t, m.Path(root), found)
}

func TestLocalSourceFSAdapter_FindProjectRoot_NotFound(t *testing.T) {
	a := NewLocalSourceFSAdapter()
	root := t.TempDir()

	writeTree(t, root, map[string]string{"calc/calc.go": "package calc\n"})

	_, err := a.FindProjectRoot(context.Background(), m.Path(filepath.Join(root, "calc", "calc.go")))
	require.Error(t, err)
}

func TestLocalSourceFSAdapter_CopyDirSkipsVCSAndVendor(t *testing.T) {
	a := NewLocalSourceFSAdapter()
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")

	writeTree(t, src, map[string]string{
		"go.mod":            "module example.com/proj\n",
		"calc/calc.go":      "package calc\n",
		".git/config":       "[core]\n",
		"vendor/dep/dep.go": "package dep\n",
		"node_modules/x.js": "module.exports = {}\n",
	})

	require.NoError(t, a.CopyDir(context.Background(), m.Path(src), m.Path(dst)))

	copied := walkFiles(t, a, dst, true)
	require.Equal(t, []string{filepath.Join("calc", "calc.go"), "go.mod"}, copied)

	content, err := os.ReadFile(filepath.Join(dst, "calc", "calc.go"))
	require.NoError(t, err)
	require.Equal(t, "package calc\n", string(content))
}

func TestLocalSourceFSAdapter_RelAndJoin(t *testing.T) {
	a := NewLocalSourceFSAdapter()

	rel, err := a.RelPath(context.Background(), "/proj", "/proj/calc/calc.go")
	require.NoError(t, err)
	require.Equal(t, m.Path(filepath.Join("calc", "calc.go")), rel)

	joined := a.JoinPath(context.Background(), "/proj", "calc", "calc.go")
	require.Equal(t, m.Path(filepath.Join("/proj", "calc", "calc.go")), joined)
}
