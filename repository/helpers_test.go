package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type plainVerifier struct{}

func (plainVerifier) Verify(stored, presented string) bool { return stored == presented }

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func readFile(t *testing.T, path string) []string {
	t.Helper()
	lines, exists, err := readLines(path)
	require.NoError(t, err)
	require.True(t, exists, "expected %s to exist", path)
	return lines
}
