package dataframe

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
)

type checksumEntry struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// Checksum returns a short, stable checksum identifying the loaded input
// data, independent of the order the frames are passed in.
//
// It computes MD5 over a canonical JSON representation and returns the first 6 hex
// characters (equivalent to `md5sum | cut -c1-6`).
func Checksum(frames ...*DataFrame) (string, error) {
	entries := make([]checksumEntry, 0, len(frames))
	for _, df := range frames {
		if df.Empty() {
			continue
		}
		entries = append(entries, checksumEntry{
			Name:    df.Name,
			Columns: df.Columns,
			Rows:    df.Rows,
		})
	}
	if len(entries) == 0 {
		return "", nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	// encoding/json sorts map keys, so each Record serializes canonically.
	b, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}

	sum := md5.Sum(b)
	hexStr := hex.EncodeToString(sum[:])
	if len(hexStr) > 6 {
		hexStr = hexStr[:6]
	}
	return hexStr, nil
}
