package materials

import (
	"context"
	"fmt"

	"github.com/NU-CEM/singing-materials-online/pkg/phonon"
)

const phononPath = "/materials/phonon/"

// PhononService provides phonon lookups.
type PhononService struct {
	client *Client
}

// BandStructure is a phonon band structure along a path of q-points.
type BandStructure struct {
	// QPoints are the fractional coordinates of the sampled q-points.
	QPoints [][]float64 `json:"qpoints" msgpack:"qpoints"`

	// Bands holds frequencies in THz indexed as Bands[band][qpoint].
	Bands [][]float64 `json:"bands" msgpack:"bands"`

	// Labels maps high-symmetry point labels to fractional coordinates.
	Labels map[string][]float64 `json:"labels_dict,omitempty" msgpack:"labels,omitempty"`
}

// NumBands returns the number of phonon branches.
func (bs *BandStructure) NumBands() int {
	return len(bs.Bands)
}

// GammaFrequencies returns the frequency of every band at the first
// q-point (the Γ point for Materials Project paths) with imaginary modes
// removed, in band order.
func (bs *BandStructure) GammaFrequencies() []float64 {
	freqs := make([]float64, 0, len(bs.Bands))
	for _, band := range bs.Bands {
		if len(band) == 0 {
			continue
		}
		freqs = append(freqs, band[0])
	}
	return phonon.DropImaginary(freqs)
}

// DOS is a phonon density of states.
type DOS struct {
	// Frequencies in THz.
	Frequencies []float64 `json:"frequencies" msgpack:"frequencies"`

	// Densities holds the density of states at each frequency.
	Densities []float64 `json:"densities" msgpack:"densities"`
}

type phononDoc struct {
	MaterialID string         `json:"material_id"`
	BS         *BandStructure `json:"ph_bs"`
	DOS        *DOS           `json:"ph_dos"`
}

// BandStructure fetches the phonon band structure for a material id.
func (s *PhononService) BandStructure(ctx context.Context, id string) (*BandStructure, error) {
	doc, err := lookup[phononDoc](ctx, s.client.http, phononPath, id, "material_id", "ph_bs")
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.BS == nil || len(doc.BS.Bands) == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNoPhononData)
	}
	return doc.BS, nil
}

// DOS fetches the phonon density of states for a material id.
func (s *PhononService) DOS(ctx context.Context, id string) (*DOS, error) {
	doc, err := lookup[phononDoc](ctx, s.client.http, phononPath, id, "material_id", "ph_dos")
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.DOS == nil || len(doc.DOS.Frequencies) == 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrNoPhononData)
	}
	if len(doc.DOS.Frequencies) != len(doc.DOS.Densities) {
		return nil, fmt.Errorf("%s: dos has %d frequencies but %d densities",
			id, len(doc.DOS.Frequencies), len(doc.DOS.Densities))
	}
	return doc.DOS, nil
}
