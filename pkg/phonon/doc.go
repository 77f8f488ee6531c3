// Package phonon converts lattice vibration frequencies into audible tones.
//
// Phonon frequencies are given in THz. The package removes imaginary
// (unstable) modes, keeps only the modes that are thermally populated at a
// given temperature according to Bose-Einstein statistics, and maps the
// remaining frequencies linearly onto the audible band [MinAudible, MaxAudible].
//
// Example usage:
//
//	freqs := phonon.DropImaginary(raw)
//	freqs, err := phonon.ExciteByHeat(freqs, phonon.RoomTemperature)
//	hz, err := phonon.ToAudible(freqs, phonon.Range{})
package phonon
