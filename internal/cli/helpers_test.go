package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"todo-manager/internal/api"
	"todo-manager/internal/config"
	"todo-manager/internal/domain"
	"todo-manager/internal/logging"
	"todo-manager/internal/repository/sqlite"
)

// unreachableURL refuses connections, which sends the client offline.
const unreachableURL = "http://127.0.0.1:1"

// isolate points HOME at a temp dir and clears the TODO_* variables so a
// developer's own configuration never leaks into the tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"TODO_CONFIG", "PORT", "TODO_STATIC_DIR", "TODO_DB_DRIVER", "TODO_DB_PATH",
		"TODO_API_URL", "TODO_CLIENT_TIMEOUT", "TODO_CACHE_PATH", "TODO_CACHE_MAX_BYTES",
		"TODO_LOG_LEVEL", "TODO_LOG_FORMAT", "TODO_APP_TIMEOUT", "TODO_DEBUG",
	} {
		t.Setenv(key, "")
	}
	return dir
}

// startTestServer runs the REST API over an in-memory database.
func startTestServer(t *testing.T) string {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewServer(repo, logging.Discard(), api.Options{}).Handler())
	t.Cleanup(func() {
		srv.Close()
		repo.Close()
	})
	return srv.URL
}

// testEnv is one user's machine: a server URL and a cache file.
type testEnv struct {
	t         *testing.T
	apiURL    string
	cachePath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := isolate(t)
	return &testEnv{t: t, apiURL: startTestServer(t), cachePath: filepath.Join(home, ".todo", "cache.db")}
}

func newOfflineEnv(t *testing.T) *testEnv {
	t.Helper()
	home := isolate(t)
	return &testEnv{t: t, apiURL: unreachableURL, cachePath: filepath.Join(home, ".todo", "cache.db")}
}

type cliResult struct {
	out    string
	errOut string
	err    error
}

// run executes one todo invocation with stdin as the user's typing.
func (e *testEnv) run(stdin string, args ...string) cliResult {
	e.t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(config.NewLoader(), IOStreams{
		In:     strings.NewReader(stdin),
		Out:    &out,
		ErrOut: &errOut,
	})
	root.SetArgs(append([]string{
		"--api-url", e.apiURL,
		"--cache-path", e.cachePath,
		"--log-level", "error",
	}, args...))
	err := root.Execute()
	return cliResult{out: out.String(), errOut: errOut.String(), err: err}
}

// mustRun is run that fails the test on a command error.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	res := e.run("", args...)
	require.NoError(e.t, res.err, res.errOut)
	return res.out
}

// listJSON returns the todos matching the given list flags.
func (e *testEnv) listJSON(flags ...string) []domain.Task {
	e.t.Helper()
	out := e.mustRun(append([]string{"list", "--format", "json"}, flags...)...)
	var tasks []domain.Task
	require.NoError(e.t, json.Unmarshal([]byte(out), &tasks), out)
	return tasks
}

// findByTitle returns the first todo with title.
func findByTitle(t *testing.T, tasks []domain.Task, title string) domain.Task {
	t.Helper()
	for _, task := range tasks {
		if task.Title == title {
			return task
		}
	}
	require.Failf(t, "todo not found", "no todo titled %q", title)
	return domain.Task{}
}

func writeTestFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
