package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actualize/actualize/internal/catalog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func load(t *testing.T, path string) (*Config, error) {
	t.Helper()
	loader, err := NewConfigLoader(path)
	require.NoError(t, err)
	return loader.Load()
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, catalog.TotalLessons, cfg.TotalLessons)
	assert.Equal(t, catalog.VariantEnhanced, cfg.Variant())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, "reports", cfg.Report.Directory)
	assert.Empty(t, cfg.Database.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
env: production
log:
  level: warn
database:
  path: /tmp/actualize-test.db
practice:
  default_variant: legacy
server:
  port: 9000
  cors:
    allowed_origins:
      - https://study.example.com
`)
	t.Setenv("ACTUALIZE_SERVER_PORT", "9100")
	t.Setenv("ACTUALIZE_TOTAL_LESSONS", "40")

	cfg, err := load(t, path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/actualize-test.db", cfg.Database.Path)
	assert.Equal(t, catalog.VariantLegacy, cfg.Variant())
	assert.Equal(t, 9100, cfg.Server.Port, "environment overrides the file")
	assert.Equal(t, 40, cfg.TotalLessons)
	assert.Equal(t, []string{"https://study.example.com"}, cfg.Server.CORS.AllowedOrigins)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad variant", "practice:\n  default_variant: classic\n", "default_variant must be one of [enhanced legacy]"},
		{"bad log level", "log:\n  level: loud\n", "level must be one of [debug info warn error]"},
		{"port out of range", "server:\n  port: 70000\n", "port must be 65,535 or less"},
		{"no lessons", "total_lessons: 0\n", "total_lessons must be 1 or greater"},
		{"missing catalog", "catalog:\n  path: /does/not/exist.json\n", "must be an existing and readable file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_CatalogFileAccepted(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`{"questions": []}`), 0o644))

	cfg, err := load(t, writeConfig(t, "catalog:\n  path: "+catalogPath+"\n"))
	require.NoError(t, err)
	assert.Equal(t, catalogPath, cfg.Catalog.Path)
}

func TestLoad_UnreadableFile(t *testing.T) {
	_, err := load(t, writeConfig(t, "env: [unterminated"))
	assert.ErrorContains(t, err, "could not be read")
}

func TestValidator_JSONTagNames(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	type request struct {
		TargetScore *int `json:"targetScore,omitempty" validate:"omitempty,min=1,max=36"`
	}
	high := 40
	err = v.Struct(request{TargetScore: &high})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "targetScore must be 36 or less")

	assert.NoError(t, v.Struct(request{}))
}
