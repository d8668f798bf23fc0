package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
)

const seedFile = `[
  {"id": "bookmark-1", "name": "Grafana", "url": "https://grafana.lan", "description": "dashboards", "created": "2024-01-01T00:00:00.000Z"},
  {"id": "bookmark-2", "name": "adguard", "url": "http://adguard.lan", "description": "dns", "created": "2024-01-02T00:00:00.000Z"}
]`

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// bookmarksFile writes content (if any) to a fresh file and isolates the
// config from the environment.
func bookmarksFile(t *testing.T, content string) string {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("BOOKMARKS_REDIS_ADDR", "")

	path := filepath.Join(t.TempDir(), "bookmarks.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return path
}

func testSession(t *testing.T, path string, globals *GlobalFlags) *session {
	t.Helper()
	globals.File = path
	s, err := openSession(context.Background(), globals)
	require.NoError(t, err)
	t.Cleanup(s.close)
	return s
}
