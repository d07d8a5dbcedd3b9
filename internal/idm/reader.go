// Package idm reads Input Design Matrix files: the parameter declarations a
// design is built from.
package idm

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/doe/internal/doe"
	"github.com/banshee-data/doe/internal/fsutil"
)

// Columns is the header of a tab-separated IDM file.
var Columns = []string{"Parameter", "Minimum", "Maximum", "Increment", "Type"}

// Load reads the IDM at path. Files ending in .yaml or .yml are parsed as a
// YAML list; everything else is tab-separated.
func Load(fs fsutil.FileSystem, path string) ([]doe.RawParameter, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open input design matrix %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseTSV(f)
	}
}

// ParseTSV parses a tab-separated IDM. The first record is the header and is
// skipped; blank lines are ignored.
func ParseTSV(r io.Reader) ([]doe.RawParameter, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var params []doe.RawParameter
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "read input design matrix"), doe.ErrConfiguration)
		}
		line, _ := reader.FieldPos(0)
		if header {
			header = false
			continue
		}
		p, err := parseRecord(trimRecord(record))
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "line %d", line), doe.ErrConfiguration)
		}
		params = append(params, p)
	}
	return params, nil
}

// trimRecord trims every field and drops trailing empty fields left by
// stray tabs.
func trimRecord(record []string) []string {
	out := make([]string, len(record))
	for i, f := range record {
		out[i] = strings.TrimSpace(f)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func parseRecord(fields []string) (doe.RawParameter, error) {
	if len(fields) != len(Columns) {
		return doe.RawParameter{}, errors.Newf("expected %d columns, got %d", len(Columns), len(fields))
	}
	var nums [3]float64
	for i := range nums {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return doe.RawParameter{}, errors.Newf("%s %q is not a number", Columns[i+1], fields[i+1])
		}
		nums[i] = v
	}
	return doe.RawParameter{
		Name:      fields[0],
		Min:       nums[0],
		Max:       nums[1],
		Increment: nums[2],
		Kind:      fields[4],
	}, nil
}

// ParseYAML parses a YAML list of {name, min, max, increment, kind}.
func ParseYAML(r io.Reader) ([]doe.RawParameter, error) {
	var params []doe.RawParameter
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&params); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Mark(errors.Wrap(err, "parse input design matrix YAML"), doe.ErrConfiguration)
	}
	return params, nil
}
