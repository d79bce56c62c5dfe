// Package preview renders quick-look images of point clouds.
package preview

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/plykit/internal/fsutil"
	"github.com/banshee-data/plykit/internal/geometry"
	"github.com/banshee-data/plykit/internal/monitoring"
)

// ScatterOptions controls a projected scatter plot.
type ScatterOptions struct {
	// Axes picks the projection plane: "xy", "xz" or "yz".
	Axes string

	// MaxPoints caps the number of points drawn; larger clouds are strided.
	// Zero draws every point.
	MaxPoints int

	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultScatterOptions returns a top-down 8x8 inch plot of at most 200k points.
func DefaultScatterOptions() ScatterOptions {
	return ScatterOptions{
		Axes:      "xy",
		MaxPoints: 200_000,
		Width:     8 * vg.Inch,
		Height:    8 * vg.Inch,
	}
}

func axisIndex(axes string) (int, int, error) {
	if len(axes) != 2 {
		return 0, 0, fmt.Errorf("axes must name two of x, y, z, got %q", axes)
	}
	a := strings.IndexByte("xyz", axes[0])
	b := strings.IndexByte("xyz", axes[1])
	if a < 0 || b < 0 || a == b {
		return 0, 0, fmt.Errorf("axes must name two of x, y, z, got %q", axes)
	}
	return a, b, nil
}

// Scatter builds the scatter plot of pc. Points are coloured by the colors
// field when present.
func Scatter(pc *geometry.PointCloud, opts ScatterOptions) (*plot.Plot, error) {
	ia, ib, err := axisIndex(opts.Axes)
	if err != nil {
		return nil, err
	}
	points := pc.Points()
	if points == nil || points.Rows() == 0 {
		return nil, fmt.Errorf("point cloud has no points")
	}

	pts := points.Dense()
	n, _ := pts.Dims()
	stride := 1
	if opts.MaxPoints > 0 && n > opts.MaxPoints {
		stride = (n + opts.MaxPoints - 1) / opts.MaxPoints
	}

	xys := make(plotter.XYs, 0, n/stride+1)
	rows := make([]int, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		xys = append(xys, plotter.XY{X: pts.At(i, ia), Y: pts.At(i, ib)})
		rows = append(rows, i)
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(0.6)
	s.GlyphStyle.Color = color.RGBA{R: 40, G: 90, B: 160, A: 255}

	if c, ok := pc.Colors().Get(); ok {
		rgb := c.Dense()
		scale := 1.0
		if c.DType().IsFloat() {
			scale = 255
		}
		base := s.GlyphStyle
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			g := base
			g.Color = rgbAt(rgb, rows[i], scale)
			return g
		}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = string(opts.Axes[0])
	p.Y.Label.Text = string(opts.Axes[1])
	p.Add(s)
	monitoring.Logf("preview: plotted %d of %d points on %s", len(xys), n, opts.Axes)
	return p, nil
}

func rgbAt(m *mat.Dense, row int, scale float64) color.Color {
	ch := func(j int) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(m.At(row, j)*scale))))
	}
	return color.RGBA{R: ch(0), G: ch(1), B: ch(2), A: 255}
}

// SaveScatter renders pc to path on fsys. The image format follows the file
// extension (png, svg, pdf, ...).
func SaveScatter(fsys fsutil.FileSystem, pc *geometry.PointCloud, path string, opts ScatterOptions) (err error) {
	p, err := Scatter(pc, opts)
	if err != nil {
		return err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	wt, err := p.WriterTo(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return writeTo(fsys, path, wt)
}

func writeTo(fsys fsutil.FileSystem, path string, wt io.WriterTo) (err error) {
	out, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if _, err := wt.WriteTo(out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
