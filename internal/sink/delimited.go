// Package sink writes design point matrices to delimited text files.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/banshee-data/doe/internal/doe"
	"github.com/banshee-data/doe/internal/fsutil"
	"github.com/banshee-data/doe/internal/monitoring"
)

// Writer writes designs through a FileSystem.
type Writer struct {
	FS        fsutil.FileSystem
	Delimiter rune
}

// NewWriter returns a Writer using delim, or tab when delim is empty.
func NewWriter(fs fsutil.FileSystem, delim string) (*Writer, error) {
	w := &Writer{FS: fs, Delimiter: '\t'}
	if delim != "" {
		r := []rune(delim)
		if len(r) != 1 || r[0] == '\n' || r[0] == '\r' || r[0] == '"' {
			return nil, errors.Newf("invalid delimiter %q", delim)
		}
		w.Delimiter = r[0]
	}
	return w, nil
}

// WriteAggregate writes the header and every selected row to path.
func (w *Writer) WriteAggregate(path string, d *doe.Design) error {
	if err := w.ensureDir(path); err != nil {
		return err
	}
	return w.writeFile(path, d.Header(), d.Rows())
}

// WritePerConfig writes one file per selected record named
// <stem>_<ConfigID><ext> beside path. It returns the files written.
func (w *Writer) WritePerConfig(path string, d *doe.Design) ([]string, error) {
	if err := w.ensureDir(path); err != nil {
		return nil, err
	}
	records := d.Records()
	names := make([]string, 0, len(records))
	for _, rec := range records {
		name := PerConfigPath(path, rec.ConfigID())
		if err := w.writeFile(name, rec.Header, [][]float64{rec.Values}); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	monitoring.Logf("wrote %d configuration files beside %s", len(names), path)
	return names, nil
}

// PerConfigPath returns the file name used for a single configuration.
func PerConfigPath(path string, id int) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%d%s", stem, id, ext)
}

func (w *Writer) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || w.FS.Exists(dir) {
		return nil
	}
	if err := w.FS.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output directory %s", dir)
	}
	return nil
}

func (w *Writer) writeFile(path string, header []string, rows [][]float64) (err error) {
	f, err := w.FS.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	if err := w.encode(f, header, rows); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func (w *Writer) encode(out io.Writer, header []string, rows [][]float64) error {
	cw := csv.NewWriter(out)
	cw.Comma = w.Delimiter
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		FormatRow(record, row)
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatRow formats a matrix row into dst. The first value is the ConfigID
// and is written as an integer.
func FormatRow(dst []string, row []float64) {
	for i, v := range row {
		if i == 0 {
			dst[i] = strconv.FormatInt(int64(v), 10)
			continue
		}
		dst[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
}
