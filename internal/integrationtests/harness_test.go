package integrationtests

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/smolix/internal/app"
	"github.com/specialistvlad/smolix/internal/cli"
	"github.com/specialistvlad/smolix/internal/testutil"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcome of one command line run.
type HarnessResult struct {
	Dir       string
	Out       string
	LogOutput string
	Err       error
}

// RunIntegrationTest writes files into a fresh store directory and runs the
// command line with args. Arguments starting with "./" are rewritten to
// paths inside the store. Logs are captured at debug level.
func RunIntegrationTest(t *testing.T, files map[string]string, args []string, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, args, opts...)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller-provided
// context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, args []string, opts ...app.Option) *HarnessResult {
	t.Helper()

	dir := testutil.WriteStore(t, files)
	full := append([]string{"--log-level", "debug"}, args...)
	for i, arg := range full {
		if strings.HasPrefix(arg, "./") {
			full[i] = filepath.Join(dir, arg)
		}
	}

	var out bytes.Buffer
	logs := &testutil.SafeBuffer{}
	err := cli.Execute(ctx, full, &out, logs, opts...)

	if os.Getenv("SMOLIX_TEST_LOGS") == "true" {
		t.Logf("--- LOGS ---\n%s", logs.String())
	}
	return &HarnessResult{Dir: dir, Out: out.String(), LogOutput: logs.String(), Err: err}
}

// lines splits output into non-empty lines.
func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func requireExit(t *testing.T, err error, code int) *cli.ExitError {
	t.Helper()
	exitErr, ok := err.(*cli.ExitError)
	require.True(t, ok, "expected *cli.ExitError, got %T: %v", err, err)
	require.Equal(t, code, exitErr.Code, exitErr.Message)
	return exitErr
}
