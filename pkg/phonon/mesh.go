package phonon

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// ErrNoQPoints is returned when a mesh file has no phonon entries.
var ErrNoQPoints = errors.New("phonon: mesh has no q-points")

// Mesh is the subset of a phonopy mesh.yaml needed for sonification.
type Mesh struct {
	Mesh    []int        `yaml:"mesh"`
	NQPoint int          `yaml:"nqpoint"`
	NAtom   int          `yaml:"natom"`
	Phonon  []MeshQPoint `yaml:"phonon"`
}

// MeshQPoint is a single q-point with its bands.
type MeshQPoint struct {
	QPosition         []float64  `yaml:"q-position"`
	DistanceFromGamma float64    `yaml:"distance_from_gamma"`
	Weight            int        `yaml:"weight"`
	Band              []MeshBand `yaml:"band"`
}

// MeshBand is one phonon band at a q-point. Frequency is in THz.
type MeshBand struct {
	Frequency float64 `yaml:"frequency"`
}

// ParseMesh decodes a phonopy mesh.yaml document.
func ParseMesh(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("phonon: read mesh: %w", err)
	}
	var m Mesh
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("phonon: parse mesh: %w", err)
	}
	return &m, nil
}

// GammaFrequencies returns the unique, real frequencies (THz) of the first
// q-point, which phonopy writes as the gamma point.
func (m *Mesh) GammaFrequencies() ([]float64, error) {
	if len(m.Phonon) == 0 {
		return nil, ErrNoQPoints
	}
	bands := m.Phonon[0].Band
	freqs := make([]float64, len(bands))
	for i, b := range bands {
		freqs[i] = b.Frequency
	}
	return DropImaginary(Unique(freqs)), nil
}
