package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTempFile writes content to name inside a fresh temporary directory and
// returns the absolute path. It fails the test immediately on error.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path, err := filepath.Abs(filepath.Join(t.TempDir(), name))
	require.NoError(t, err, "Failed to get absolute path for temp file")

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write temp file")
	return path
}
