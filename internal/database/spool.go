package database

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"container-labs/internal/experiments"
)

const SpoolVersion = 1

// ReportArtifact is a self-contained snapshot of one report run.
type ReportArtifact struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	// Checksum identifies the input CSVs.
	Checksum  string                     `json:"checksum"`
	Inputs    []string                   `json:"inputs"`
	System    *SystemInfo                `json:"system"`
	Summaries []experiments.GroupSummary `json:"summaries"`
	Charts    []string                   `json:"charts,omitempty"`
}

func DefaultSpoolDir() string {
	if v := strings.TrimSpace(os.Getenv("REPORT_SPOOL_DIR")); v != "" {
		return v
	}
	return "spool"
}

// BuildReportArtifact summarizes every dataset that has rows.
func BuildReportArtifact(ds *experiments.Datasets, checksum string, charts []string) *ReportArtifact {
	var inputs []string
	for _, df := range ds.Frames() {
		if !df.Empty() {
			inputs = append(inputs, df.Name)
		}
	}
	return &ReportArtifact{
		Version:   SpoolVersion,
		CreatedAt: time.Now(),
		Checksum:  checksum,
		Inputs:    inputs,
		System:    CollectSystemInfo(),
		Summaries: experiments.Summaries(ds),
		Charts:    charts,
	}
}

// WriteSpoolArtifact writes a gzip-compressed JSON artifact to disk atomically.
// It returns the final file path.
func WriteSpoolArtifact(dir string, artifact *ReportArtifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("spool artifact is nil")
	}
	if dir == "" {
		dir = DefaultSpoolDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	checksum := artifact.Checksum
	if checksum == "" {
		checksum = "nocsum"
	}
	name := fmt.Sprintf("report_%s_%s.json.gz", artifact.CreatedAt.UTC().Format("20060102T150405Z"), checksum)
	finalPath := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, name+".tmp.*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpPath)
		}
	}()

	gz := gzip.NewWriter(tmp)
	enc := json.NewEncoder(gz)
	enc.SetIndent("", "  ")
	if err := enc.Encode(artifact); err != nil {
		_ = gz.Close()
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", err
	}
	ok = true
	return finalPath, nil
}

func ReadSpoolArtifact(path string) (*ReportArtifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer gz.Close()

	var artifact ReportArtifact
	if err := json.NewDecoder(gz).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &artifact, nil
}
