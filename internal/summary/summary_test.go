package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"container-labs/internal/dataframe"
	"container-labs/internal/experiments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, name, csv string) *dataframe.DataFrame {
	t.Helper()
	if csv == "" {
		return &dataframe.DataFrame{Name: name}
	}
	df, err := dataframe.Parse(name, strings.NewReader(csv))
	require.NoError(t, err)
	return df
}

func TestPrint_NoInputsOnlyBanner(t *testing.T) {
	ds := &experiments.Datasets{
		Startup: frame(t, "exp1_startup.csv", ""),
		Scale:   frame(t, "exp2_scale.csv", ""),
		Runtime: frame(t, "exp3_runtime.csv", ""),
		Nested:  frame(t, "exp4_nested.csv", ""),
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Print(ds)

	rule := strings.Repeat("=", 60)
	expected := "\n" + rule + "\n  BENCHMARK SUMMARY\n" + rule + "\n\n" + rule + "\n"
	assert.Equal(t, expected, buf.String())
}

func TestPrint_AllSections(t *testing.T) {
	ds := &experiments.Datasets{
		Startup: frame(t, "exp1_startup.csv",
			"runtime,image,startup_ms\nbare,none,100\nbare,none,200\ndocker,alpine,300\n"),
		Scale: frame(t, "exp2_scale.csv",
			"runtime,count,launch_time_s,per_container_kb,daemon_rss_kb\ndocker,5,1.234,456,789\npodman,x,1,1,1\n"),
		Runtime: frame(t, "exp3_runtime.csv",
			"runtime,workload,time_s\nbare,hash,1.0\ndocker,hash,1.053\npodman,sort,2.0\n"),
		Nested: frame(t, "exp4_nested.csv",
			"method,metric,value\nbare,startup_ms,12\nbare,cpu_s,0.1\ndocker,cpu_s,0.102\n"),
	}

	var buf bytes.Buffer
	NewPrinter(&buf).Print(ds)
	out := buf.String()

	assert.Contains(t, out, "Exp 1 — Startup Latency (median):\n  bare/none               150.0 ms\n  docker/alpine           300.0 ms\n")
	assert.Contains(t, out, "  Docker      5 cont:   1.23s, 456 KB/cont, daemon=789 KB\n")
	assert.NotContains(t, out, "Podman      x")
	assert.Contains(t, out, "  hash:\n    Bare Metal      1.0000s\n    Docker          1.0530s (+5.3%)\n")
	// No bare baseline for sort: the percentage is omitted.
	assert.Contains(t, out, "  sort:\n    Podman          2.0000s\n")
	assert.Contains(t, out, "    Bare Metal                 12.0 ms\n")
	assert.Contains(t, out, "    Docker                 0.102s (+2.0%)\n")
	assert.True(t, strings.HasSuffix(out, strings.Repeat("=", 60)+"\n"))
}

func TestPrintCharts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"exp3_runtime.png", "exp1_startup.png", "other.png", "exp2_scale.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf).PrintCharts(dir))

	expected := "\nGenerated charts:\n" +
		"  " + filepath.Join(dir, "exp1_startup.png") + "\n" +
		"  " + filepath.Join(dir, "exp3_runtime.png") + "\n"
	assert.Equal(t, expected, buf.String())
}
