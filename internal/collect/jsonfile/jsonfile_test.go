package jsonfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scanset/ESP-Agent-SDK/internal/collect/jsonfile"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_PromotesTopLevelScalarFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"enabled": true, "name": "agent", "limits": {"max": 5}}`), 0o644))

	c := jsonfile.New()
	data, err := c.Collect(path, model.BehaviorHints{})
	require.NoError(t, err)

	assert.True(t, data.Fields["enabled"].Bool)
	assert.Equal(t, "agent", data.Fields["name"].Str)
	assert.Equal(t, model.KindRecord, data.Fields["record"].Kind)
	_, hasNested := data.Fields["limits"]
	assert.False(t, hasNested, "nested record fields should not be promoted")
}

func TestCollector_MissingFileReturnsNotFound(t *testing.T) {
	c := jsonfile.New()
	_, err := c.Collect("/nonexistent/config.json", model.BehaviorHints{})
	require.Error(t, err)
	var modelErr *model.Error
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, model.ErrObjectNotFound, modelErr.Kind)
}
