package doe

import "math"

// maxDesignRows bounds the full design so a typo in a parameter file cannot
// ask for an allocation the machine will never satisfy.
const maxDesignRows = 50_000_000

// FactorialTable is the full cross-product of a set of factorial axes.
// Row r holds one value per axis, in axis order. The first axis varies
// fastest.
type FactorialTable struct {
	Axes []FactorialAxis
	rows int
	data []float64
}

// Rows returns the number of factorial combinations (1 when there are no axes).
func (t *FactorialTable) Rows() int { return t.rows }

// Row returns the values of combination r. The slice aliases table storage.
func (t *FactorialTable) Row(r int) []float64 {
	w := len(t.Axes)
	return t.data[r*w : (r+1)*w]
}

// factorialSize multiplies the axis lengths, failing once the product passes
// maxDesignRows.
func factorialSize(axes []FactorialAxis) (int, error) {
	total := 1
	for _, a := range axes {
		if len(a.Values) == 0 {
			return 0, configErrorf("parameter %q has an empty axis", a.Parameter.Name)
		}
		if total > math.MaxInt/len(a.Values) || total*len(a.Values) > maxDesignRows {
			return 0, configErrorf("factorial design exceeds %d combinations", maxDesignRows)
		}
		total *= len(a.Values)
	}
	return total, nil
}

// designSize is the row count of the assembled design: every LHD sample
// paired with every factorial combination.
func designSize(axes []FactorialAxis, samples int) (int, error) {
	total, err := factorialSize(axes)
	if err != nil {
		return 0, err
	}
	lhdRows := max(1, samples)
	if lhdRows > math.MaxInt/total || lhdRows*total > maxDesignRows {
		return 0, configErrorf("design exceeds %d configurations", maxDesignRows)
	}
	return lhdRows * total, nil
}

// BuildFactorialTable expands axes into their cross-product. Each value of
// axis k is repeated loops consecutive times, where loops is the product of
// the lengths of the axes declared before k.
func BuildFactorialTable(axes []FactorialAxis) (*FactorialTable, error) {
	total, err := factorialSize(axes)
	if err != nil {
		return nil, err
	}

	w := len(axes)
	t := &FactorialTable{Axes: axes, rows: total, data: make([]float64, total*w)}
	loops := 1
	for col, a := range axes {
		row := 0
		for row < total {
			for _, v := range a.Values {
				for rep := 0; rep < loops; rep++ {
					t.data[row*w+col] = v
					row++
				}
			}
		}
		loops *= len(a.Values)
	}
	return t, nil
}
