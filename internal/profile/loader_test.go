package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "games", "default.yaml"), `
version: "base"
proc:
  percentage: 10
`)
	writeFile(t, filepath.Join(dir, "games", "dota.yaml"), `
version: "dota-1"
proc:
  percentage: 17
`)
	writeFile(t, filepath.Join(dir, "games", "dota", "abilities", "bash.yaml"), `
proc:
  percentage: 25
  seed: 42
`)
	return dir
}

func TestLoadMergedLayers(t *testing.T) {
	l := NewLoader(setupConfigDir(t))

	// default only (unknown game has no file of its own)
	cfg, err := l.LoadMerged("unknown", "")
	require.NoError(t, err)
	require.NotNil(t, cfg.Proc.Percentage)
	assert.Equal(t, 10.0, *cfg.Proc.Percentage)
	assert.Equal(t, "base", cfg.Version)

	// game overrides default
	cfg, err = l.LoadMerged("dota", "")
	require.NoError(t, err)
	assert.Equal(t, 17.0, *cfg.Proc.Percentage)
	assert.Equal(t, "dota-1", cfg.Version)

	// ability overrides game; version inherited from game layer
	cfg, err = l.LoadMerged("dota", "bash")
	require.NoError(t, err)
	assert.Equal(t, 25.0, *cfg.Proc.Percentage)
	require.NotNil(t, cfg.Proc.Seed)
	assert.Equal(t, uint64(42), *cfg.Proc.Seed)
	assert.Equal(t, "dota-1", cfg.Version)
}

func TestResolve(t *testing.T) {
	l := NewLoader(setupConfigDir(t))

	_, params, err := l.Resolve("dota", "bash", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 25.0, params.Percentage)
	assert.Equal(t, uint64(42), params.Seed)
	assert.Equal(t, "dota-1", params.Version)

	// query override wins over every file layer
	p := 50.0
	_, params, err = l.Resolve("dota", "bash", Overrides{Percentage: &p})
	require.NoError(t, err)
	assert.Equal(t, 50.0, params.Percentage)
}

func TestResolveRejectsBadPercentage(t *testing.T) {
	l := NewLoader(setupConfigDir(t))
	p := 150.0
	_, _, err := l.Resolve("dota", "", Overrides{Percentage: &p})
	assert.Error(t, err)
}

func TestResolveMissingPercentage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "games", "default.yaml"), `
version: "empty"
`)
	l := NewLoader(dir)
	_, _, err := l.Resolve("any", "", Overrides{})
	assert.ErrorIs(t, err, ErrNoPercentage)
}

func TestInvalidatePicksUpChanges(t *testing.T) {
	dir := setupConfigDir(t)
	l := NewLoader(dir)

	cfg, err := l.LoadMerged("dota", "")
	require.NoError(t, err)
	assert.Equal(t, 17.0, *cfg.Proc.Percentage)

	writeFile(t, filepath.Join(dir, "games", "dota.yaml"), `
version: "dota-2"
proc:
  percentage: 30
`)

	// cached value survives until invalidation
	cfg, err = l.LoadMerged("dota", "")
	require.NoError(t, err)
	assert.Equal(t, 17.0, *cfg.Proc.Percentage)

	l.Invalidate()
	cfg, err = l.LoadMerged("dota", "")
	require.NoError(t, err)
	assert.Equal(t, 30.0, *cfg.Proc.Percentage)
	assert.Equal(t, "dota-2", cfg.Version)
}

func TestValidateRaw(t *testing.T) {
	good := 25.0
	assert.NoError(t, ValidateRaw(RawConfig{Proc: ProcConfig{Percentage: &good}}))

	bad := -1.0
	assert.Error(t, ValidateRaw(RawConfig{Proc: ProcConfig{Percentage: &bad}}))

	over := 100.5
	assert.Error(t, ValidateRaw(RawConfig{Proc: ProcConfig{Percentage: &over}}))

	// nil percentage is allowed at this layer; Resolve enforces presence
	assert.NoError(t, ValidateRaw(RawConfig{}))
}
