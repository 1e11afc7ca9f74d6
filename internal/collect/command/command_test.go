package command_test

import (
	"context"
	"testing"
	"time"

	collectcmd "github.com/scanset/ESP-Agent-SDK/internal/collect/command"
	"github.com/scanset/ESP-Agent-SDK/internal/model"
	"github.com/scanset/ESP-Agent-SDK/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitive_CollectParsesStdout(t *testing.T) {
	ex := sandbox.New(5 * time.Second)
	ex.AllowCommand("/bin/echo")

	p := collectcmd.New(ex)
	data, err := p.Collect(context.Background(), []string{"/bin/echo", "42"}, "echo-target", 0, func(stdout string) (map[string]model.Value, error) {
		return map[string]model.Value{"raw": model.NewString(stdout)}, nil
	})
	require.NoError(t, err)
	assert.Contains(t, data.Fields["raw"].Str, "42")
	assert.Equal(t, []string{"/bin/echo", "42"}, data.Method.Command)
	assert.Equal(t, "command", data.Method.Type)
}

func TestPrimitive_NotWhitelisted(t *testing.T) {
	ex := sandbox.New(5 * time.Second)
	p := collectcmd.New(ex)

	_, err := p.Collect(context.Background(), []string{"/bin/echo", "42"}, "t", 0, func(string) (map[string]model.Value, error) {
		return nil, nil
	})
	require.Error(t, err)
	var modelErr *model.Error
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, model.ErrCommandNotAllowed, modelErr.Kind)
}
