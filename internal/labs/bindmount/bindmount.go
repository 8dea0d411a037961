// Package bindmount is the in-container half of the bind mount lab: it lists
// the mounted directory and writes a file back through the mount so the
// result can be seen on the host.
package bindmount

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"container-labs/internal/logging"
)

const (
	DefaultDir    = "/app"
	DefaultOutput = "output.txt"
)

type Options struct {
	Dir    string
	Output string
	Now    func() time.Time
}

func (o *Options) setDefaults() {
	if o.Dir == "" {
		o.Dir = DefaultDir
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Run prints the environment and directory listing to w, then writes the
// output file into the directory. It returns the output file path.
func Run(w io.Writer, opts Options) (string, error) {
	opts.setDefaults()
	logger := logging.GetLogger()

	wd, err := os.Getwd()
	if err != nil {
		wd = "unknown"
	}

	rule := strings.Repeat("=", 40)
	fmt.Fprintf(w, "%s\n  Lab 1: Bind Mounts\n%s\n", rule, rule)
	fmt.Fprintf(w, "Go version:     %s\n", runtime.Version())
	fmt.Fprintf(w, "Working dir:    %s\n", wd)
	fmt.Fprintf(w, "Timestamp:      %s\n\n", opts.Now().Format(time.RFC3339Nano))

	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", opts.Dir, err)
	}

	fmt.Fprintf(w, "Files in %s:\n", opts.Dir)
	for _, entry := range entries {
		info, err := os.Stat(filepath.Join(opts.Dir, entry.Name()))
		if err != nil {
			logger.WithField("file", entry.Name()).WithError(err).Warn("Failed to stat entry")
			continue
		}
		fmt.Fprintf(w, "  %-30s %6d bytes\n", entry.Name(), info.Size())
	}
	fmt.Fprintln(w)

	path := filepath.Join(opts.Dir, opts.Output)
	if err := os.WriteFile(path, []byte(report(opts.Now())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(w, "Created file: %s\n", path)
	fmt.Fprintln(w, "Check your host: the file should be there.")
	return path, nil
}

func report(now time.Time) string {
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generated by Go %s\n", runtime.Version())
	fmt.Fprintf(&b, "Timestamp: %s\n", now.Format(time.RFC3339Nano))
	fmt.Fprintf(&b, "PID: %d\n", os.Getpid())
	fmt.Fprintf(&b, "User: %s (uid=%d)\n", user, os.Getuid())
	return b.String()
}
