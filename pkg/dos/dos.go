// Package dos renders phonon density-of-states plots.
package dos

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/NU-CEM/singing-materials-online/pkg/materials"
)

// Defaults match a 6.4×4.8 inch figure saved at 250 dpi.
const (
	DefaultWidth  = 6.4 * vg.Inch
	DefaultHeight = 4.8 * vg.Inch
	DefaultDPI    = 250
)

// DefaultFilename is the name the web form serves the plot under.
const DefaultFilename = "dos.png"

// ErrEmpty is returned when there is nothing to plot.
var ErrEmpty = errors.New("dos: no density of states data")

// Options controls the output image. Zero values take the defaults.
type Options struct {
	Width  vg.Length
	Height vg.Length
	DPI    int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	return o
}

// Plot builds the frequency vs. density line plot titled with title.
func Plot(d *materials.DOS, title string) (*plot.Plot, error) {
	if d == nil || len(d.Frequencies) == 0 {
		return nil, ErrEmpty
	}
	if len(d.Frequencies) != len(d.Densities) {
		return nil, fmt.Errorf("dos: %d frequencies but %d densities", len(d.Frequencies), len(d.Densities))
	}

	pts := make(plotter.XYs, len(d.Frequencies))
	for i := range pts {
		pts[i].X = d.Frequencies[i]
		pts[i].Y = d.Densities[i]
	}

	p := plot.New()
	p.BackgroundColor = color.Transparent
	p.Title.Text = title
	p.X.Label.Text = "Frequency (THz)"
	p.Y.Label.Text = "Density of States"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("dos: %w", err)
	}
	line.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	line.Width = vg.Points(1.5)
	p.Add(line)
	return p, nil
}

// WritePNG draws p as a PNG with a transparent background.
func WritePNG(w io.Writer, p *plot.Plot, opts Options) error {
	opts = opts.withDefaults()
	c := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(opts.DPI),
		vgimg.UseBackgroundColor(color.Transparent),
	)
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("dos: write png: %w", err)
	}
	return nil
}

// Render fetches the DOS and chemical formula of material id from src and
// writes the plot to w as PNG.
func Render(ctx context.Context, src materials.Source, id string, w io.Writer, opts Options) error {
	d, err := src.DOS(ctx, id)
	if err != nil {
		return fmt.Errorf("dos: %s: %w", id, err)
	}
	formula, err := src.Formula(ctx, id)
	if err != nil {
		return fmt.Errorf("dos: %s: %w", id, err)
	}
	p, err := Plot(d, formula)
	if err != nil {
		return err
	}
	return WritePNG(w, p, opts)
}
