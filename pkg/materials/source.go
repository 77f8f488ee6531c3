package materials

import "context"

// Source provides the material data the sonifier consumes. *Client and
// *Cached implement it.
type Source interface {
	// BandStructure returns the phonon band structure of a material.
	BandStructure(ctx context.Context, id string) (*BandStructure, error)

	// DOS returns the phonon density of states of a material.
	DOS(ctx context.Context, id string) (*DOS, error)

	// Formula returns the reduced chemical formula of a material.
	Formula(ctx context.Context, id string) (string, error)
}
