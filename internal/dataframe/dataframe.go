package dataframe

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"

	"container-labs/internal/logging"

	"github.com/sirupsen/logrus"
)

// Record is one CSV row keyed by header name. Fields missing from a short
// row are absent from the map.
type Record map[string]string

// Get returns the field and whether the row carried it.
func (r Record) Get(field string) (string, bool) {
	v, ok := r[field]
	return v, ok
}

type DataFrame struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

func (df *DataFrame) Len() int {
	if df == nil {
		return 0
	}
	return len(df.Rows)
}

func (df *DataFrame) Empty() bool {
	return df.Len() == 0
}

// Load reads dir/name as a header-driven CSV. A missing file is not an
// error: it is logged and an empty frame is returned.
func Load(dir, name string) (*DataFrame, error) {
	logger := logging.GetLogger()
	path := filepath.Join(dir, name)
	df := &DataFrame{Name: name, Path: path}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WithField("file", path).Warn("File not found")
			return df, nil
		}
		logger.WithField("file", path).WithError(err).Error("Failed to open CSV file")
		return df, err
	}
	defer f.Close()

	if err := df.read(f); err != nil {
		logger.WithFields(logrus.Fields{
			"file":      path,
			"rows_kept": len(df.Rows),
		}).WithError(err).Warn("CSV parse stopped early")
	}

	logger.WithFields(logrus.Fields{
		"file": path,
		"rows": len(df.Rows),
	}).Debug("Loaded CSV file")

	return df, nil
}

// Parse reads CSV content from r. Rows read before a syntax error are kept.
func Parse(name string, r io.Reader) (*DataFrame, error) {
	df := &DataFrame{Name: name}
	err := df.read(r)
	return df, err
}

func (df *DataFrame) read(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	df.Columns = header

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		record := make(Record, len(header))
		for i, column := range header {
			if i >= len(fields) {
				break
			}
			record[column] = fields[i]
		}
		df.Rows = append(df.Rows, record)
	}
}
