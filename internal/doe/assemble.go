package doe

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Assemble pairs every LHD row with every factorial row and fills one output
// row per pair. The factorial row varies fastest, so all factorial variants of
// one LHD draw are adjacent. lhd may be nil when there are no LHD parameters;
// a single empty LHD row is used instead. Column 0 receives ConfigID
// rowIndex+1. Random columns draw from unit in row-major order.
func Assemble(ctx context.Context, reg *Registry, table *FactorialTable, lhd *mat.Dense, unit *distuv.Uniform) (*mat.Dense, error) {
	resolvers, err := newResolvers(reg, unit)
	if err != nil {
		return nil, err
	}

	lhdRows := 1
	if lhd != nil {
		lhdRows, _ = lhd.Dims()
	}
	if lhdRows > math.MaxInt/table.Rows() || lhdRows*table.Rows() > maxDesignRows {
		return nil, configErrorf("design exceeds %d configurations", maxDesignRows)
	}
	total := lhdRows * table.Rows()

	dpm := mat.NewDense(total, reg.Len()+1, nil)
	row := 0
	for l := 0; l < lhdRows; l++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var rc rowContext
		if lhd != nil {
			rc.lhd = lhd.RawRowView(l)
		}
		for f := 0; f < table.Rows(); f++ {
			rc.fact = table.Row(f)
			out := dpm.RawRowView(row)
			out[0] = float64(row + 1)
			for c, res := range resolvers {
				out[c+1] = res.resolve(rc)
			}
			row++
		}
	}
	return dpm, nil
}
