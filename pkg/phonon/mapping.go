package phonon

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
)

const (
	// THz is one terahertz in hertz.
	THz = 1e12

	// MinAudible is the lowest frequency (Hz) a phonon is mapped to.
	MinAudible = 20.0

	// MaxAudible is the highest frequency (Hz) a phonon is mapped to.
	MaxAudible = 8e3

	// SingleToneHz is used when there is only one frequency to map.
	SingleToneHz = 440.0
)

var (
	// ErrInvalidRange is returned when an explicit Range has Min >= Max.
	ErrInvalidRange = errors.New("phonon: min_phonon must be less than max_phonon")

	// ErrDegenerateRange is returned when the effective range has zero width,
	// e.g. all frequencies are equal and no explicit bounds are given.
	ErrDegenerateRange = errors.New("phonon: frequency range has zero width")

	// ErrNotFinite is returned for a NaN or infinite bound.
	ErrNotFinite = errors.New("phonon: min_phonon and max_phonon must be finite")
)

// Range bounds the phonon frequencies (THz) that map to MinAudible and
// MaxAudible. A nil bound is taken from the data.
type Range struct {
	Min *float64
	Max *float64
}

// Bounds returns a Range with both ends set.
func Bounds(min, max float64) Range {
	return Range{Min: &min, Max: &max}
}

// Validate checks the explicit bounds.
func (r Range) Validate() error {
	for _, b := range []*float64{r.Min, r.Max} {
		if b != nil && (math.IsNaN(*b) || math.IsInf(*b, 0)) {
			return fmt.Errorf("%w (got %g)", ErrNotFinite, *b)
		}
	}
	if r.Min != nil && r.Max != nil && *r.Min >= *r.Max {
		return fmt.Errorf("%w (got %g >= %g)", ErrInvalidRange, *r.Min, *r.Max)
	}
	return nil
}

// resolve returns the effective bounds in THz.
func (r Range) resolve(freqs []float64) (lo, hi float64) {
	if r.Min != nil {
		lo = *r.Min
	} else {
		lo = slices.Min(freqs)
	}
	if r.Max != nil {
		hi = *r.Max
	} else {
		hi = slices.Max(freqs)
	}
	return lo, hi
}

// LinearMap maps phonon frequencies (THz) linearly onto the audible band so
// that the range minimum lands on MinAudible and the maximum on MaxAudible.
// Frequencies outside an explicit range map outside the band; they are not
// clamped.
func LinearMap(freqs []float64, r Range) ([]float64, error) {
	if len(freqs) == 0 {
		return []float64{}, nil
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	lo, hi := r.resolve(freqs)
	loHz, hiHz := lo*THz, hi*THz
	if hiHz == loHz {
		return nil, ErrDegenerateRange
	}

	scale := (MaxAudible - MinAudible) / (hiHz - loHz)
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = scale*(f*THz-loHz) + MinAudible
	}
	return out, nil
}

// ToAudible returns the audible frequencies (Hz) for the given phonon
// frequencies (THz). When all frequencies are equal, e.g. one mode or a
// degenerate set, there is no range to scale against and every copy is
// played at SingleToneHz.
func ToAudible(freqs []float64, r Range) ([]float64, error) {
	if len(freqs) == 0 {
		return []float64{}, nil
	}
	if len(Unique(freqs)) > 1 {
		return LinearMap(freqs, r)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	slog.Info("only one distinct phonon frequency, mapping to single tone", "thz", freqs[0], "hz", SingleToneHz)
	out := make([]float64, len(freqs))
	for i := range out {
		out[i] = SingleToneHz
	}
	return out, nil
}

// DropImaginary removes imaginary modes. Imaginary frequencies are reported
// as negative values; zero-frequency modes are removed as well.
func DropImaginary(freqs []float64) []float64 {
	out := make([]float64, 0, len(freqs))
	for _, f := range freqs {
		if f > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Unique removes exact duplicates, keeping the first occurrence.
func Unique(freqs []float64) []float64 {
	seen := make(map[float64]struct{}, len(freqs))
	out := make([]float64, 0, len(freqs))
	for _, f := range freqs {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
