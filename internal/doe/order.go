package doe

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// Order optionally shuffles whole rows of the design, then rewrites the
// ConfigID column to rowIndex+1+offset. Shuffling keeps configurations whose
// compute cost grows with a factorial setting from clustering in sequential
// batches.
func Order(dpm *mat.Dense, rng *rand.Rand, randomize bool, offset int) {
	rows, cols := dpm.Dims()
	if randomize {
		tmp := make([]float64, cols)
		rng.Shuffle(rows, func(i, j int) {
			ri, rj := dpm.RawRowView(i), dpm.RawRowView(j)
			copy(tmp, ri)
			copy(ri, rj)
			copy(rj, tmp)
		})
	}
	for r := 0; r < rows; r++ {
		dpm.Set(r, 0, float64(r+1+offset))
	}
}
