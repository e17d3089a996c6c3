package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splinemap/internal/config"
	"splinemap/internal/geom"
)

func writeRoute(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "route.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name":"a","position":[0,0]},
		{"name":"b","position":[1,1]},
		{"name":"c","position":[0,2]}]`), 0o644))
	return path
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.geojson")
	style := filepath.Join(dir, "style.json")
	require.NoError(t, run([]string{"-export", out, "-style", style, "-arrow", "start", writeRoute(t)}))

	fc, err := geom.LoadCollection(out)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 4, "two curves and two arrows")

	b, err := os.ReadFile(style)
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
}

func TestRunReturnsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("nope = 1\n"), 0o644))

	for name, args := range map[string][]string{
		"unknown flag":     {"-bogus"},
		"bad arrow":        {"-arrow", "middle"},
		"bad alpha":        {"-alpha", "2"},
		"bad config":       {"-config", bad},
		"missing config":   {"-config", filepath.Join(dir, "none.toml")},
		"missing waypoint": {"-export", filepath.Join(dir, "out.json"), filepath.Join(dir, "none.json")},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, run(args))
		})
	}
	assert.ErrorIs(t, run([]string{"-density", "1"}), config.ErrInvalid)
}
