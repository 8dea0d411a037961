package bindmount

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ListsSortedAndWritesOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zeta.txt"), []byte("12345"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.py"), []byte("print()"), 0o644))
	t.Setenv("USER", "")

	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	var out bytes.Buffer
	path, err := Run(&out, Options{Dir: dir, Now: func() time.Time { return now }})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "output.txt"), path)

	text := out.String()
	assert.Contains(t, text, "  Lab 1: Bind Mounts\n")
	assert.Contains(t, text, "Timestamp:      2026-05-06T07:08:09Z\n")

	alpha := fmt.Sprintf("  %-30s %6d bytes\n", "alpha.py", 7)
	zeta := fmt.Sprintf("  %-30s %6d bytes\n", "zeta.txt", 5)
	require.Contains(t, text, alpha)
	require.Contains(t, text, zeta)
	assert.Less(t, strings.Index(text, alpha), strings.Index(text, zeta))
	assert.Contains(t, text, "Created file: "+path+"\n")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Timestamp: 2026-05-06T07:08:09Z\n")
	assert.Contains(t, string(content), fmt.Sprintf("PID: %d\n", os.Getpid()))
	assert.Contains(t, string(content), fmt.Sprintf("User: unknown (uid=%d)\n", os.Getuid()))
}

func TestRun_MissingDir(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(&out, Options{Dir: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
