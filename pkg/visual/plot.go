// pkg/visual/plot.go
package visual

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"datasweep/pkg/model"
	"datasweep/pkg/stats"
)

// Plotter renders per-column distribution figures: a histogram with mean
// and median reference lines next to a horizontal boxplot, annotated with
// summary statistics and the IQR outlier count. One PNG per column.
type Plotter struct {
	outDir string
	bins   int
	logger *zap.Logger
}

// NewPlotter creates a Plotter writing figures under outDir
func NewPlotter(outDir string, bins int, logger *zap.Logger) (*Plotter, error) {
	if outDir == "" {
		return nil, errors.New("output directory cannot be empty")
	}
	if bins <= 0 {
		return nil, errors.New("bin count must be positive")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Plotter{outDir: outDir, bins: bins, logger: logger}, nil
}

// PlotTable renders a figure for every numeric column and returns the
// written file paths. Empty and constant columns are skipped with a log
// line; categorical columns are ignored.
func (p *Plotter) PlotTable(t *model.Table) ([]string, error) {
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}

	var paths []string
	for _, col := range t.Columns() {
		num, ok := col.(*model.NumericColumn)
		if !ok {
			continue
		}

		values := num.NonMissing()
		if len(values) == 0 {
			p.logger.Info("Skipping empty column", zap.String("column", num.Name()))
			continue
		}
		if num.DistinctNonMissing() <= 1 {
			p.logger.Info("Skipping constant column", zap.String("column", num.Name()))
			continue
		}

		path, err := p.plotColumn(num.Name(), values)
		if err != nil {
			return paths, fmt.Errorf("failed to plot column %s: %w", num.Name(), err)
		}
		p.logger.Info("Wrote figure", zap.String("column", num.Name()), zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// plotColumn renders one histogram+boxplot figure and returns its path
func (p *Plotter) plotColumn(name string, values []float64) (string, error) {
	s := stats.Describe(values)

	hist, err := p.histogramPlot(name, values, s)
	if err != nil {
		return "", err
	}
	box, err := p.boxPlot(name, values)
	if err != nil {
		return "", err
	}

	// Histogram on the left, boxplot on the right, one row
	img := vgimg.New(14*vg.Inch, 5*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter, PadY: vg.Millimeter}
	canvases := plot.Align([][]*plot.Plot{{hist, box}}, tiles, dc)
	hist.Draw(canvases[0][0])
	box.Draw(canvases[0][1])

	path := filepath.Join(p.outDir, name+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create figure file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return "", fmt.Errorf("failed to encode figure: %w", err)
	}
	return path, nil
}

func (p *Plotter) histogramPlot(name string, values []float64, s stats.Summary) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Distribution: %s", name)
	pl.X.Label.Text = name
	pl.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(values), p.bins)
	if err != nil {
		return nil, err
	}
	h.FillColor = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
	pl.Add(h)

	top := histTop(h)

	kde, err := kdeOverlay(values, p.bins)
	if err != nil {
		return nil, err
	}
	if kde != nil {
		pl.Add(kde)
		pl.Legend.Add("kde", kde)
	}

	mean, err := referenceLine(s.Mean, top, color.Black, []vg.Length{vg.Points(4), vg.Points(2)})
	if err != nil {
		return nil, err
	}
	median, err := referenceLine(s.Median, top, color.RGBA{R: 0x8b, A: 0xff}, []vg.Length{vg.Points(1), vg.Points(2)})
	if err != nil {
		return nil, err
	}
	pl.Add(mean, median)
	pl.Legend.Add(fmt.Sprintf("mean = %.2f", s.Mean), mean)
	pl.Legend.Add(fmt.Sprintf("median = %.2f", s.Median), median)
	pl.Legend.Add(summaryAnnotation(s))
	pl.Legend.Top = true

	return pl, nil
}

// summaryAnnotation is the statistics text shown on the histogram panel
func summaryAnnotation(s stats.Summary) string {
	return fmt.Sprintf("n = %d  std = %.2f  min = %.2f  max = %.2f  skew = %.2f",
		s.Count, s.Std, s.Min, s.Max, s.Skew)
}

func (p *Plotter) boxPlot(name string, values []float64) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Boxplot: %s", name)
	pl.X.Label.Text = name

	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(values))
	if err != nil {
		return nil, err
	}
	b.Horizontal = true
	pl.Add(b)
	pl.Y.Min, pl.Y.Max = -1, 1
	pl.Y.Tick.Marker = plot.ConstantTicks(nil)

	pl.Legend.Add(fmt.Sprintf("outliers = %d", stats.OutlierCount(values)))
	pl.Legend.Top = true

	return pl, nil
}

// referenceLine builds a dashed vertical marker at x spanning [0, top]
func referenceLine(x, top float64, c color.Color, dashes []vg.Length) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = dashes
	return line, nil
}

// histTop returns the weight of the tallest bar of a constructed
// histogram so reference lines span exactly the plot height
func histTop(h *plotter.Histogram) float64 {
	top := 0.0
	for _, bin := range h.Bins {
		if bin.Weight > top {
			top = bin.Weight
		}
	}
	return top
}

// kdeOverlay builds the Gaussian kernel density curve scaled to the
// histogram's count axis. Returns nil when the data cannot support a
// bandwidth (fewer than two values, or no spread).
func kdeOverlay(values []float64, bins int) (*plotter.Line, error) {
	bw := stats.SilvermanBandwidth(values)
	if math.IsNaN(bw) {
		return nil, nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	// Densities are per unit of x; counts are per bin. Scaling by
	// n * binWidth puts the curve on the histogram's axis.
	scale := float64(len(values)) * (hi - lo) / float64(bins)

	const gridSize = 200
	grid := make([]float64, gridSize)
	start, end := lo-3*bw, hi+3*bw
	step := (end - start) / float64(gridSize-1)
	for i := range grid {
		grid[i] = start + float64(i)*step
	}
	density := stats.GaussianKDE(values, grid)

	pts := make(plotter.XYs, gridSize)
	for i := range grid {
		pts[i].X = grid[i]
		pts[i].Y = density[i] * scale
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = color.RGBA{R: 0xdd, G: 0x84, B: 0x52, A: 0xff}
	line.LineStyle.Width = vg.Points(1.5)
	return line, nil
}
