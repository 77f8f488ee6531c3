// Package materials is a client for the Materials Project API
// (https://api.materialsproject.org), limited to the endpoints the
// sonifier needs: phonon band structures, phonon densities of states and
// material summaries.
//
// An API key is required (https://materialsproject.org/api).
//
// Example usage:
//
//	client := materials.NewClient(os.Getenv("MP_API_KEY"))
//
//	bs, err := client.Phonon.BandStructure(ctx, "mp-149")
//	if err != nil {
//	    return err
//	}
//	freqs := bs.GammaFrequencies() // THz, imaginary modes removed
//
//	formula, err := client.Summary.Formula(ctx, "mp-149")
//
// Responses can be cached across runs by wrapping the client with
// NewCached and a kv.Store.
package materials
