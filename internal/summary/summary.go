// Package summary prints the plain-text benchmark summary.
package summary

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"container-labs/internal/experiments"
	"container-labs/internal/plot/mappings"
)

var rule = strings.Repeat("=", 60)

type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes the banner, one section per non-empty dataset and the footer.
func (p *Printer) Print(ds *experiments.Datasets) {
	p.printf("\n%s\n  BENCHMARK SUMMARY\n%s\n", rule, rule)

	if !ds.Startup.Empty() {
		p.startup(experiments.StartupGroups(ds.Startup))
	}
	if !ds.Scale.Empty() {
		p.scale(ds)
	}
	if !ds.Runtime.Empty() {
		p.runtime(experiments.RuntimeGroups(ds.Runtime))
	}
	if !ds.Nested.Empty() {
		p.nested(experiments.NestedGroups(ds.Nested))
	}

	p.printf("\n%s\n", rule)
}

func (p *Printer) startup(groups experiments.Groups) {
	p.printf("\nExp 1 — Startup Latency (median):\n")
	for _, key := range experiments.StartupOrder {
		if median, ok := groups.Median(key); ok {
			p.printf("  %-20s %8.1f ms\n", key.String(), median)
		}
	}
}

// scale lists every parseable row in file order.
func (p *Printer) scale(ds *experiments.Datasets) {
	p.printf("\nExp 2 — Scale (launch time + memory):\n")
	for _, row := range ds.Scale.Rows {
		runtime, point, ok := experiments.ParseScaleRow(row)
		if !ok {
			continue
		}
		p.printf("  %-10s %2s cont: %6.2fs, %.0f KB/cont, daemon=%.0f KB\n",
			mappings.Label(runtime), strconv.Itoa(point.Count),
			point.LaunchSeconds, point.PerContainerKB, point.DaemonRSSKB)
	}
}

func (p *Printer) runtime(groups experiments.Groups) {
	p.printf("\nExp 3 — Runtime Overhead (median):\n")
	for _, workload := range experiments.RuntimeWorkloads {
		p.printf("  %s:\n", workload)
		for _, runtime := range experiments.RuntimeRuntimes {
			key := experiments.GroupKey{Runtime: runtime, Label: workload}
			median, ok := groups.Median(key)
			if !ok {
				continue
			}
			label := mappings.Label(runtime)
			if pct, ok := groups.Overhead(key); ok && runtime != experiments.RuntimeBare {
				p.printf("    %-15s %.4fs (%+.1f%%)\n", label, median, pct)
				continue
			}
			p.printf("    %-15s %.4fs\n", label, median)
		}
	}
}

func (p *Printer) nested(groups experiments.Groups) {
	p.printf("\nExp 4 — Nested Containers:\n")

	p.printf("  Startup (median):\n")
	for _, method := range experiments.NestedMethods {
		key := experiments.GroupKey{Runtime: method, Label: experiments.MetricStartupMS}
		if median, ok := groups.Median(key); ok {
			p.printf("    %-22s %8.1f ms\n", mappings.Label(method), median)
		}
	}

	p.printf("  CPU sha256sum 50MB (median):\n")
	for _, method := range experiments.NestedMethods {
		key := experiments.GroupKey{Runtime: method, Label: experiments.MetricCPUSecs}
		median, ok := groups.Median(key)
		if !ok {
			continue
		}
		label := mappings.Label(method)
		if pct, ok := groups.Overhead(key); ok && method != experiments.RuntimeBare {
			p.printf("    %-22s %.3fs (%+.1f%%)\n", label, median, pct)
			continue
		}
		p.printf("    %-22s %.3fs\n", label, median)
	}
}

// PrintCharts lists the exp*.png files present in dir, sorted by name.
func (p *Printer) PrintCharts(dir string) error {
	charts, err := filepath.Glob(filepath.Join(dir, "exp*.png"))
	if err != nil {
		return fmt.Errorf("failed to list charts: %w", err)
	}
	sort.Strings(charts)

	p.printf("\nGenerated charts:\n")
	for _, chart := range charts {
		p.printf("  %s\n", chart)
	}
	return nil
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}
