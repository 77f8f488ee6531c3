package dos

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/NU-CEM/singing-materials-online/pkg/materials"
)

type fakeSource struct {
	dos     *materials.DOS
	formula string
	err     error
}

func (f *fakeSource) BandStructure(context.Context, string) (*materials.BandStructure, error) {
	return nil, materials.ErrNoPhononData
}

func (f *fakeSource) DOS(context.Context, string) (*materials.DOS, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dos, nil
}

func (f *fakeSource) Formula(context.Context, string) (string, error) {
	return f.formula, nil
}

func sampleDOS() *materials.DOS {
	return &materials.DOS{
		Frequencies: []float64{0, 2, 4, 6, 8, 10, 12, 14, 16},
		Densities:   []float64{0, 0.01, 0.05, 0.12, 0.08, 0.2, 0.3, 0.15, 0},
	}
}

func TestPlot(t *testing.T) {
	p, err := Plot(sampleDOS(), "Si")
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}
	if p.Title.Text != "Si" {
		t.Errorf("title = %q", p.Title.Text)
	}
	if p.X.Label.Text != "Frequency (THz)" || p.Y.Label.Text != "Density of States" {
		t.Errorf("labels = %q, %q", p.X.Label.Text, p.Y.Label.Text)
	}
}

func TestPlot_Invalid(t *testing.T) {
	if _, err := Plot(&materials.DOS{}, "x"); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := Plot(nil, "x"); !errors.Is(err, ErrEmpty) {
		t.Errorf("nil: err = %v", err)
	}
	bad := &materials.DOS{Frequencies: []float64{1, 2}, Densities: []float64{1}}
	if _, err := Plot(bad, "x"); err == nil {
		t.Error("mismatched lengths: expected error")
	}
}

func TestRender(t *testing.T) {
	src := &fakeSource{dos: sampleDOS(), formula: "Si"}
	var buf bytes.Buffer
	opts := Options{Width: 4 * vg.Inch, Height: 3 * vg.Inch, DPI: 50}
	if err := Render(context.Background(), src, "mp-149", &buf, opts); err != nil {
		t.Fatalf("Render: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width < 199 || cfg.Width > 201 || cfg.Height < 149 || cfg.Height > 151 {
		t.Errorf("size = %dx%d, want 200x150", cfg.Width, cfg.Height)
	}
}

func TestRender_SourceError(t *testing.T) {
	src := &fakeSource{err: materials.ErrNoPhononData}
	err := Render(context.Background(), src, "mp-0", &bytes.Buffer{}, Options{})
	if !errors.Is(err, materials.ErrNoPhononData) {
		t.Errorf("err = %v, want ErrNoPhononData", err)
	}
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Width != DefaultWidth || o.Height != DefaultHeight || o.DPI != DefaultDPI {
		t.Errorf("defaults = %+v", o)
	}
}
