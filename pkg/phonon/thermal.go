package phonon

import (
	"errors"
	"fmt"
	"math"
)

const (
	// Planck is the Planck constant in J·s.
	Planck = 6.62607015e-34

	// Boltzmann is the Boltzmann constant in J/K.
	Boltzmann = 1.380649e-23

	// RoomTemperature is the default excitation temperature in K.
	RoomTemperature = 300.0
)

// ErrTemperature is returned for a non-positive temperature.
var ErrTemperature = errors.New("phonon: temperature must be positive")

// FrequencyToEnergy converts a frequency in THz to a phonon energy in joules.
func FrequencyToEnergy(thz float64) float64 {
	return Planck * thz * THz
}

// Occupation returns the Bose-Einstein mean occupation number of a mode with
// the given energy (J) at the given temperature (K).
func Occupation(energy, temperature float64) float64 {
	return 1 / math.Expm1(energy/(Boltzmann*temperature))
}

// ExciteByHeat returns the frequencies (THz) whose mean occupation at the
// given temperature is at least one.
func ExciteByHeat(freqs []float64, temperature float64) ([]float64, error) {
	if !(temperature > 0) {
		return nil, fmt.Errorf("%w: %g K", ErrTemperature, temperature)
	}
	out := make([]float64, 0, len(freqs))
	for _, f := range freqs {
		if Occupation(FrequencyToEnergy(f), temperature) >= 1 {
			out = append(out, f)
		}
	}
	return out, nil
}

// OccupationThreshold returns the frequency (THz) at which the mean
// occupation drops to exactly one: h·f = kB·T·ln 2.
func OccupationThreshold(temperature float64) float64 {
	return Boltzmann * temperature * math.Ln2 / Planck / THz
}
