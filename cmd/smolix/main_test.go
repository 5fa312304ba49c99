package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/smolix/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun_Plan(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	drv := `{
		"name": "hello",
		"builder": "/bin/sh",
		"args": ["-c", "echo hello > $out"],
		"env": {"out": "/store/hello"},
		"inputDrvs": {},
		"inputSrcs": [],
		"outputs": {"out": {"path": "/store/hello"}},
		"system": "x86_64-linux"
	}`
	path := filepath.Join(dir, "hello.drv.json")
	require.NoError(t, os.WriteFile(path, []byte(drv), 0o600))
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"plan", path})

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "hello\n", out.String())
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "help is not an error")
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitUsage, exitErr.Code)
	require.Contains(t, exitErr.Message, "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.drv.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": `), 0o600))

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"plan", path})

	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, cli.ExitRuntime, exitErr.Code)
	require.Contains(t, exitErr.Message, "parse error")
}
