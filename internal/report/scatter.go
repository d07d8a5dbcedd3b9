package report

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/doe/internal/doe"
	"github.com/banshee-data/doe/internal/fsutil"
	"github.com/banshee-data/doe/internal/monitoring"
)

// maxScatterPairs caps the number of pairwise plots written for wide
// hypercubes.
const maxScatterPairs = 28

// WriteScatterPNG writes one scatter plot per pair of LHD columns into dir
// on fs and returns the paths written. A single LHD column is plotted against the
// row index. Designs without LHD columns produce no files.
func WriteScatterPNG(fs fsutil.FileSystem, dir string, d *doe.Design) ([]string, error) {
	lhd := d.Registry().ByKind(doe.KindLHD)
	if len(lhd) == 0 {
		return nil, nil
	}

	cols := make([][]float64, len(lhd))
	for i, p := range lhd {
		cols[i], _ = d.Column(p.Name)
	}

	if len(lhd) == 1 {
		index := make([]float64, len(cols[0]))
		for i := range index {
			index[i] = float64(i)
		}
		path := filepath.Join(dir, fmt.Sprintf("lhd_%s.png", lhd[0].Name))
		if err := saveScatter(fs, path, "row", lhd[0].Name, index, cols[0]); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	var paths []string
	for i := 0; i < len(lhd); i++ {
		for j := i + 1; j < len(lhd); j++ {
			if len(paths) == maxScatterPairs {
				monitoring.Logf("scatter plots capped at %d pairs", maxScatterPairs)
				return paths, nil
			}
			path := filepath.Join(dir, fmt.Sprintf("lhd_%s_vs_%s.png", lhd[i].Name, lhd[j].Name))
			if err := saveScatter(fs, path, lhd[i].Name, lhd[j].Name, cols[i], cols[j]); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func saveScatter(fs fsutil.FileSystem, path, xName, yName string, xs, ys []float64) error {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", yName, xName)
	p.X.Label.Text = xName
	p.Y.Label.Text = yName
	p.Add(plotter.NewGrid())

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrapf(err, "scatter %s", path)
	}
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return errors.Wrapf(err, "render %s", path)
	}
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}
	return nil
}
