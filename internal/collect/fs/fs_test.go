package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	collectfs "github.com/scanset/ESP-Agent-SDK/internal/collect/fs"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitive_MetadataMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	p := collectfs.New()
	data, err := p.Collect(path, collectfs.ModeMetadata, model.BehaviorHints{})
	require.NoError(t, err)
	assert.True(t, data.Exists)
	assert.Equal(t, "0644", data.Fields["mode"].Str)
	assert.Equal(t, int64(5), data.Fields["size"].Int)
}

func TestPrimitive_NotFound(t *testing.T) {
	p := collectfs.New()
	_, err := p.Collect("/nonexistent/path/xyz", collectfs.ModeMetadata, model.BehaviorHints{})
	require.Error(t, err)
	var modelErr *model.Error
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, model.ErrObjectNotFound, modelErr.Kind)
}

func TestPrimitive_ContentMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	p := collectfs.New()
	data, err := p.Collect(path, collectfs.ModeContent, model.BehaviorHints{})
	require.NoError(t, err)
	assert.Equal(t, "hello world", data.Fields["content"].Str)
}

func TestPrimitive_RecordMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users":[{"role":"admin"}]}`), 0o644))

	p := collectfs.New()
	data, err := p.Collect(path, collectfs.ModeRecord, model.BehaviorHints{})
	require.NoError(t, err)
	record := data.Fields["record"]
	require.Equal(t, model.KindRecord, record.Kind)
	users, ok := record.Record.Get("users")
	require.True(t, ok)
	assert.Equal(t, 1, users.Record.Len())
}

func TestWalk_RecursiveAndNonRecursive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("y"), 0o644))

	flat, err := collectfs.Walk(dir, model.BehaviorHints{Recursive: false})
	require.NoError(t, err)
	assert.Len(t, flat, 1)

	recursive, err := collectfs.Walk(dir, model.BehaviorHints{Recursive: true})
	require.NoError(t, err)
	assert.Len(t, recursive, 2)
}

func TestWalk_HiddenFilesExcludedByDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("y"), 0o644))

	paths, err := collectfs.Walk(dir, model.BehaviorHints{Recursive: true, IncludeHidden: false})
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}
