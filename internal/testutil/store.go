package testutil

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/smolix/internal/ctxlog"
	"github.com/specialistvlad/smolix/internal/derivation"
	"github.com/stretchr/testify/require"
)

// Drv returns a minimal valid descriptor named name that depends on the
// descriptor files listed in inputs.
func Drv(name string, inputs ...string) *derivation.Derivation {
	drv := &derivation.Derivation{
		Name:             name,
		Builder:          "/bin/sh",
		Args:             []string{"-c", "build " + name},
		Env:              map[string]string{"out": "/store/" + name},
		InputDerivations: map[string]derivation.InputRef{},
		InputSources:     []string{},
		Outputs:          map[string]derivation.Output{"out": {Path: "/store/" + name}},
		System:           "x86_64-linux",
	}
	for _, in := range inputs {
		drv.InputDerivations[in] = derivation.InputRef{
			Outputs:        []string{"out"},
			DynamicOutputs: map[string]string{},
		}
	}
	return drv
}

// JSON serialises drv into the store's JSON representation.
func JSON(t *testing.T, drv *derivation.Derivation) string {
	t.Helper()
	data, err := json.MarshalIndent(drv, "", "  ")
	require.NoError(t, err)
	return string(data)
}

// WriteStore writes files (relative path -> content) into a fresh temporary
// directory and returns that directory.
func WriteStore(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// WriteDrvs writes each descriptor as JSON under its file name and returns the
// store directory.
func WriteDrvs(t *testing.T, drvs map[string]*derivation.Derivation) string {
	t.Helper()
	files := make(map[string]string, len(drvs))
	for name, drv := range drvs {
		files[name] = JSON(t, drv)
	}
	return WriteStore(t, files)
}

// Context returns a context whose logger writes debug output into buf.
func Context(buf *SafeBuffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}
