package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	t.Setenv("INFLUXDB_HOST", "")
	t.Setenv("REPORT_SPOOL_DIR", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultResultsDir, cfg.Report.ResultsDir)
	assert.Equal(t, DefaultImagesDir, cfg.Report.ImagesDir)
	assert.Equal(t, DefaultDPI, cfg.Report.DPI)
	assert.False(t, cfg.Report.TikZ)
}

func TestLoadConfig_OverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("LAB_RESULTS", "/data/results")
	t.Setenv("INFLUXDB_TOKEN", "secret")

	path := writeConfig(t, `
report:
  results_dir: ${LAB_RESULTS}
  dpi: 300
  tikz: true
export:
  influxdb:
    enabled: true
    host: http://localhost:8086
    org: course
    bucket: bench
`)

	cfg, content, err := LoadConfigWithContent(path)
	require.NoError(t, err)
	assert.Contains(t, content, "${LAB_RESULTS}")
	assert.Equal(t, "/data/results", cfg.Report.ResultsDir)
	assert.Equal(t, DefaultImagesDir, cfg.Report.ImagesDir)
	assert.Equal(t, 300, cfg.Report.DPI)
	assert.True(t, cfg.Report.TikZ)
	assert.Equal(t, "secret", cfg.Export.InfluxDB.Token)
	assert.True(t, cfg.Export.InfluxDB.IsComplete())
}

func TestLoadConfig_UnsetVariableIsKept(t *testing.T) {
	assert.Equal(t, "dir: ${SURELY_NOT_SET_ANYWHERE}", expandEnvVars("dir: ${SURELY_NOT_SET_ANYWHERE}"))
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	t.Setenv("INFLUXDB_HOST", "")
	t.Setenv("INFLUXDB_TOKEN", "")
	t.Setenv("INFLUXDB_ORG", "")
	t.Setenv("INFLUXDB_BUCKET", "")

	cases := map[string]string{
		"zero dpi":          "report:\n  dpi: 0\n",
		"empty results dir": "report:\n  results_dir: \"\"\n",
		"incomplete influx": "export:\n  influxdb:\n    enabled: true\n    host: http://x\n",
		"negative timeout":  "export:\n  timeout_s: -1\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
