package doe

import (
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Design is the result of Build: the full design point matrix plus the
// subset of rows handed to output sinks.
type Design struct {
	registry  *Registry
	matrix    *mat.Dense
	header    []string
	warnings  []Warning
	summary   Summary
	selection []int
}

// Record is one configuration together with the header it belongs to.
type Record struct {
	Header []string
	Values []float64
}

// ConfigID returns the record's identifier.
func (r Record) ConfigID() int {
	return int(r.Values[0])
}

// Header returns the ID label followed by the parameter names.
func (d *Design) Header() []string { return slices.Clone(d.header) }

// Matrix returns the full design. Callers must not modify it.
func (d *Design) Matrix() *mat.Dense { return d.matrix }

// Registry returns the validated parameters the design was built from.
func (d *Design) Registry() *Registry { return d.registry }

// Summary returns factor and configuration counts.
func (d *Design) Summary() Summary { return d.summary }

// Warnings returns the non-fatal observations made while building.
func (d *Design) Warnings() []Warning { return slices.Clone(d.warnings) }

// Len returns the number of configurations in the full design.
func (d *Design) Len() int {
	r, _ := d.matrix.Dims()
	return r
}

// Selection returns the indices of the rows handed to sinks.
func (d *Design) Selection() []int { return slices.Clone(d.selection) }

// Rows returns copies of the selected rows in order, for aggregate output.
func (d *Design) Rows() [][]float64 {
	out := make([][]float64, len(d.selection))
	for i, r := range d.selection {
		out[i] = slices.Clone(d.matrix.RawRowView(r))
	}
	return out
}

// Records returns one record per selected row, for per-configuration output.
func (d *Design) Records() []Record {
	rows := d.Rows()
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = Record{Header: d.Header(), Values: row}
	}
	return out
}

// Column returns a copy of the full-design column for the named parameter.
func (d *Design) Column(name string) ([]float64, bool) {
	for i, h := range d.header[1:] {
		if h == name {
			return mat.Col(nil, i+1, d.matrix), true
		}
	}
	return nil, false
}

// selectRows picks the rows handed to sinks. Without a test count every row
// is used. Aggregate test mode takes the first n rows; per-config test mode
// samples n rows without replacement. A count at or above the row total
// selects everything and draws nothing.
func selectRows(rng *rand.Rand, total, n int, perConfig bool) []int {
	if n <= 0 || n >= total {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all
	}
	if !perConfig {
		first := make([]int, n)
		for i := range first {
			first[i] = i
		}
		return first
	}
	picked := rng.Perm(total)[:n]
	return slices.Clone(picked)
}
