package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bookseed/internal/paths"
	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// testEnv isolates one CLI invocation: its own config and data
// directories and no inherited BOOKSEED_* values.
type testEnv struct {
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range []string{
		"DRIVER", "URL", "USER", "PASSWORD", "SCHEMA", "PUBLISHER",
		"STATEMENT_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "COLOR",
		"CONFIG_DIR", "DATA_DIR",
	} {
		t.Setenv("BOOKSEED_"+k, "")
	}
	return &testEnv{configDir: t.TempDir(), dataDir: t.TempDir()}
}

type result struct {
	code   int
	stdout string
	stderr string
}

// run invokes the CLI in process with the env's directories prepended.
func (e *testEnv) run(args ...string) result {
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--url", e.dataDir, "--log-level", "error"}, args...)
	code := Run(context.Background(), full, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRunCommand(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("run")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Connecting to database...\n")
	assert.Contains(t, res.stdout, "QUERY: Printing all books published by Pearson\n")
	assert.Contains(t, res.stdout, "Zzz Running Man")
	assert.True(t, strings.HasSuffix(res.stdout, "Done.\n"))
	assert.NotContains(t, res.stdout, "\x1b[", "no colour on a non-terminal")
	assert.FileExists(t, filepath.Join(env.dataDir, "books.db"))
}

func TestRunCommandPublisherFromEnv(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("BOOKSEED_PUBLISHER", "Wiley")

	res := env.run("run")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "QUERY: Printing all books published by Wiley\n")
}

func TestInitWritesDefaultConfig(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("init")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "Initialized books: 15 authors, 15 publishers, 17 titles, 15 links\n", res.stdout)

	data, err := os.ReadFile(paths.ConfigFile(env.configDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "driver: sqlite")
	assert.Contains(t, string(data), "publisher: Pearson")
}

func TestReportCommand(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, exitSuccess, env.run("init").code)

	res := env.run("report", "authors")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	lines := strings.Split(res.stdout, "\n")
	require.Greater(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "authorID"))
	assert.Contains(t, lines[2], "Faulkner")

	res = env.run("report", "by-publisher", "--publisher", "Wiley")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "The Great Gatsby")
	assert.NotContains(t, res.stdout, "Running Man")
}

func TestReportErrors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("unknown report is a usage error", func(t *testing.T) {
		res := env.run("report", "sales")
		assert.Equal(t, exitUserError, res.code)
		assert.Contains(t, res.stderr, "bookseed: unknown report")
	})

	t.Run("missing name is a usage error", func(t *testing.T) {
		res := env.run("report")
		assert.Equal(t, exitUserError, res.code)
	})

	t.Run("missing schema is a database error", func(t *testing.T) {
		res := env.run("report", "titles")
		assert.Equal(t, exitDBError, res.code)
		assert.Contains(t, res.stderr, "query titles")
	})
}

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(paths.ConfigFile(env.configDir),
		[]byte("driver: sqlite\nschema: library\npublisher: Wiley\nlog:\n  format: json\n"), 0o644))
	t.Setenv("BOOKSEED_PUBLISHER", "Penguin Random")

	res := env.run("config", "--password", "hunter2", "--statement-timeout", "30s")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	assert.Contains(t, res.stdout, "# "+paths.ConfigFile(env.configDir))
	assert.Contains(t, res.stdout, "schema: library", "file overrides defaults")
	assert.Contains(t, res.stdout, "publisher: Penguin Random", "env overrides file")
	assert.Contains(t, res.stdout, "format: json")
	assert.Contains(t, res.stdout, "statement_timeout: 30s", "flag is decoded as a duration")
	assert.Contains(t, res.stdout, "********")
	assert.NotContains(t, res.stdout, "hunter2")
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown driver", []string{"run", "--driver", "mysql"}, types.ErrDriverUnknown.Error()},
		{"bad log level", []string{"run", "--log-level", "loud"}, types.ErrLogLevelUnknown.Error()},
		{"bad colour", []string{"run", "--color", "rainbow"}, types.ErrColorModeUnknown.Error()},
		{"negative timeout", []string{"run", "--statement-timeout=-1s"}, types.ErrTimeoutNegative.Error()},
		{"unknown command", []string{"seed-twice"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			res := env.run(tt.args...)
			assert.Equal(t, exitUserError, res.code)
			assert.Contains(t, res.stderr, tt.want)
			assert.True(t, strings.HasPrefix(res.stderr, "bookseed: "), res.stderr)
		})
	}
}

func TestUnreachablePostgresIsDatabaseError(t *testing.T) {
	env := newTestEnv(t)

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{
		"--config-dir", env.configDir,
		"--driver", "pgx",
		"--url", "postgres://127.0.0.1:1/?connect_timeout=1&sslmode=disable",
		"run",
	}, &stdout, &stderr)

	assert.Equal(t, exitDBError, code)
	assert.Contains(t, stderr.String(), "connect pgx")
	assert.Equal(t, "Connecting to database...\n", stdout.String())
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("version")
	require.Equal(t, exitSuccess, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "bookseed v"))
	assert.Contains(t, res.stdout, "module: github.com/mesh-intelligence/bookseed")
	assert.NoFileExists(t, paths.ConfigFile(env.configDir), "version does not load config")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"plain", errors.New("boom"), exitUserError},
		{"config", fmt.Errorf("invalid config: %w", types.ErrDriverEmpty), exitUserError},
		{"connect", &types.ConnectError{Driver: "pgx", Err: errors.New("refused")}, exitDBError},
		{"statement", fmt.Errorf("seed: %w", &types.StatementError{Op: types.OpSeed, Name: "titles", Err: errors.New("dup")}), exitDBError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
