package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/doe/internal/doe"
	"github.com/banshee-data/doe/internal/fsutil"
)

// HTMLName is the file name WriteReport gives the HTML page.
const HTMLName = "design.html"

// WriteHTML renders a page with one histogram per parameter. Each chart's
// subtitle carries the column's kind and statistics.
func WriteHTML(w io.Writer, d *doe.Design) error {
	s := d.Summary()
	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("Design of experiments: %d configurations", s.Configurations))

	for _, cs := range Summarize(d) {
		col, _ := d.Column(cs.Name)
		edges, counts := Histogram(col)

		x := make([]string, len(edges))
		y := make([]opts.BarData, len(counts))
		for i := range edges {
			x[i] = strconv.FormatFloat(edges[i], 'g', 4, 64)
			y[i] = opts.BarData{Value: counts[i]}
		}

		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "360px"}),
			charts.WithTitleOpts(opts.Title{
				Title: cs.Name,
				Subtitle: fmt.Sprintf("%s  min=%g max=%g mean=%.6g sd=%.6g",
					cs.Kind, cs.Min, cs.Max, cs.Mean, cs.StdDev),
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "bin start", NameLocation: "middle", NameGap: 25}),
			charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
		)
		bar.SetXAxis(x).AddSeries(cs.Name, y)
		page.AddCharts(bar)
	}

	return page.Render(w)
}

// WriteReport writes the HTML page and the scatter plots into dir on fs,
// creating it if needed, and returns the paths written.
func WriteReport(fs fsutil.FileSystem, dir string, d *doe.Design) ([]string, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create report directory %s", dir)
	}

	htmlPath := filepath.Join(dir, HTMLName)
	f, err := fs.Create(htmlPath)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", htmlPath)
	}
	if err := WriteHTML(f, d); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "render %s", htmlPath)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, "close %s", htmlPath)
	}

	pngs, err := WriteScatterPNG(fs, dir, d)
	if err != nil {
		return nil, err
	}
	return append([]string{htmlPath}, pngs...), nil
}
