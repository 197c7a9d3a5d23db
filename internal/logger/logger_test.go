package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/actualize/actualize/internal/config"
)

func TestNew_Level(t *testing.T) {
	l, err := New(&config.Config{Env: "local", Log: config.LogConfig{Level: "warn"}})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&config.Config{Log: config.LogConfig{Level: "loud"}})
	assert.Error(t, err)
}

func TestNewFile_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "actualize.log")
	l, err := NewFile(&config.Config{Env: "production", Log: config.LogConfig{Level: "info"}}, path)
	require.NoError(t, err)

	l.Info("hello from test")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}
