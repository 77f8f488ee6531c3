package phonon

import (
	"errors"
	"math"
	"testing"
)

func approxEqual(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (got %v)", len(got), len(want), got)
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLinearMap(t *testing.T) {
	tests := []struct {
		name  string
		freqs []float64
		r     Range
		want  []float64
	}{
		{"data bounds", []float64{1, 2, 3}, Range{}, []float64{20, 4010, 8000}},
		{"unordered", []float64{3, 1, 2}, Range{}, []float64{8000, 20, 4010}},
		{"explicit bounds", []float64{5, 10}, Bounds(0, 10), []float64{4010, 8000}},
		{"outside explicit bounds", []float64{12, 5}, Bounds(0, 10), []float64{9596, 4010}},
		{"explicit min only", []float64{2, 4}, Range{Min: ptr(0)}, []float64{4010, 8000}},
		{"explicit max only", []float64{2, 4}, Range{Max: ptr(6)}, []float64{20, 4010}},
		{"empty", nil, Range{}, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LinearMap(tt.freqs, tt.r)
			if err != nil {
				t.Fatalf("LinearMap() error = %v", err)
			}
			approxEqual(t, got, tt.want)
		})
	}
}

func TestLinearMap_Errors(t *testing.T) {
	if _, err := LinearMap([]float64{1, 2}, Bounds(5, 5)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("equal bounds: err = %v, want ErrInvalidRange", err)
	}
	if _, err := LinearMap([]float64{1, 2}, Bounds(6, 5)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed bounds: err = %v, want ErrInvalidRange", err)
	}
	if _, err := LinearMap([]float64{3, 3}, Range{}); !errors.Is(err, ErrDegenerateRange) {
		t.Errorf("flat data: err = %v, want ErrDegenerateRange", err)
	}
}

func TestLinearMap_EndpointsHitBand(t *testing.T) {
	freqs := []float64{0.7, 2.1, 4.4, 9.9}
	got, err := LinearMap(freqs, Range{})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got[0]-MinAudible) > 1e-9 {
		t.Errorf("min maps to %v, want %v", got[0], MinAudible)
	}
	if math.Abs(got[3]-MaxAudible) > 1e-6 {
		t.Errorf("max maps to %v, want %v", got[3], MaxAudible)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Errorf("mapping not monotonic at %d: %v", i, got)
		}
	}
}

func TestToAudible(t *testing.T) {
	got, err := ToAudible([]float64{5.3}, Range{})
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, got, []float64{SingleToneHz})

	got, err = ToAudible(nil, Range{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("ToAudible(nil) = %v, want empty", got)
	}

	got, err = ToAudible([]float64{1, 3}, Range{})
	if err != nil {
		t.Fatal(err)
	}
	approxEqual(t, got, []float64{20, 8000})

	if _, err := ToAudible([]float64{1}, Bounds(2, 1)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("single tone with bad range: err = %v, want ErrInvalidRange", err)
	}
}

func TestToAudible_DegenerateModes(t *testing.T) {
	got, err := ToAudible([]float64{3.1, 3.1, 3.1}, Range{})
	if err != nil {
		t.Fatalf("ToAudible() error = %v", err)
	}
	approxEqual(t, got, []float64{SingleToneHz, SingleToneHz, SingleToneHz})

	got, err = ToAudible([]float64{3.1, 3.1, 4.1}, Range{})
	if err != nil {
		t.Fatalf("ToAudible() error = %v", err)
	}
	approxEqual(t, got, []float64{MinAudible, MinAudible, MaxAudible})
}

func TestRange_ValidateNotFinite(t *testing.T) {
	tests := []struct {
		name string
		r    Range
	}{
		{"NaN min", Range{Min: ptr(math.NaN())}},
		{"NaN max", Range{Max: ptr(math.NaN())}},
		{"+Inf max", Bounds(0, math.Inf(1))},
		{"-Inf min", Bounds(math.Inf(-1), 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.r.Validate(); !errors.Is(err, ErrNotFinite) {
				t.Errorf("Validate() = %v, want ErrNotFinite", err)
			}
			if _, err := ToAudible([]float64{1, 2}, tt.r); !errors.Is(err, ErrNotFinite) {
				t.Errorf("ToAudible() = %v, want ErrNotFinite", err)
			}
		})
	}
}

func TestDropImaginary(t *testing.T) {
	got := DropImaginary([]float64{-0.5, 0, 1.5, -2, 3})
	approxEqual(t, got, []float64{1.5, 3})

	if got := DropImaginary(nil); len(got) != 0 {
		t.Errorf("DropImaginary(nil) = %v", got)
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]float64{2, 1, 2, 3, 1})
	approxEqual(t, got, []float64{2, 1, 3})
}

func ptr(f float64) *float64 { return &f }
