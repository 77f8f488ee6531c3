// Package sonify turns phonon frequencies into a chord and plays it.
//
// For every material the pipeline is:
//
//	Γ-point frequencies (THz)
//	  → modes with Bose-Einstein occupation ≥ 1 at the request temperature
//	  → linear map onto 20-8000 Hz
//	  → chord played for the request duration
package sonify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/player"
	"github.com/NU-CEM/singing-materials-online/pkg/materials"
	"github.com/NU-CEM/singing-materials-online/pkg/phonon"
)

// DefaultDuration is how long each chord plays when a request leaves
// Duration unset.
const DefaultDuration = 5 * time.Second

// ErrNoIDs is returned by Request.Validate when no material ids are given.
var ErrNoIDs = errors.New("sonify: at least one material id is required")

// Request describes one sonification run.
type Request struct {
	// IDs are Materials Project ids (e.g. "mp-149"), played in order.
	IDs []string `json:"ids" yaml:"ids"`

	// MinPhonon and MaxPhonon (THz) map to the lowest and highest audible
	// frequency. Nil bounds are taken from each material's data.
	MinPhonon *float64 `json:"min_phonon,omitempty" yaml:"min_phonon,omitempty"`
	MaxPhonon *float64 `json:"max_phonon,omitempty" yaml:"max_phonon,omitempty"`

	// Duration is how long each chord plays.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Temperature in kelvin used to select thermally populated modes.
	// Zero means phonon.RoomTemperature.
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// UnmarshalJSON accepts the duration as a Go duration string ("2.5s") or
// a number of seconds.
func (r *Request) UnmarshalJSON(b []byte) error {
	type plain Request
	aux := struct {
		*plain
		Duration json.RawMessage `json:"duration"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d, err := parseDuration(aux.Duration)
	if err != nil {
		return fmt.Errorf("sonify: duration: %w", err)
	}
	r.Duration = d
	return nil
}

// MarshalJSON writes the duration as a Go duration string.
func (r Request) MarshalJSON() ([]byte, error) {
	type plain Request
	return json.Marshal(struct {
		plain
		Duration string `json:"duration"`
	}{plain: plain(r), Duration: r.Duration.String()})
}

func parseDuration(raw json.RawMessage) (time.Duration, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		return time.ParseDuration(s)
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Range returns the phonon range of the request.
func (r *Request) Range() phonon.Range {
	return phonon.Range{Min: r.MinPhonon, Max: r.MaxPhonon}
}

// Validate checks the request and fills in the default temperature.
func (r *Request) Validate() error {
	if len(r.IDs) == 0 {
		return ErrNoIDs
	}
	for i, id := range r.IDs {
		if id == "" {
			return fmt.Errorf("sonify: material id %d is empty", i)
		}
	}
	return r.validateParams()
}

func (r *Request) validateParams() error {
	if err := r.Range().Validate(); err != nil {
		return err
	}
	if r.Duration <= 0 {
		return fmt.Errorf("sonify: %w", player.ErrDuration)
	}
	if r.Temperature == 0 {
		r.Temperature = phonon.RoomTemperature
	}
	if r.Temperature < 0 || math.IsNaN(r.Temperature) || math.IsInf(r.Temperature, 0) {
		return fmt.Errorf("sonify: %w: %g K", phonon.ErrTemperature, r.Temperature)
	}
	return nil
}

// Result records the frequencies played for one material.
type Result struct {
	ID        string    `json:"id" yaml:"id"`
	PhononTHz []float64 `json:"phonon_frequencies" yaml:"phonon_frequencies"`
	AudibleHz []float64 `json:"audible_frequencies" yaml:"audible_frequencies"`
}

// Sonifier runs requests against a material source and a player.
type Sonifier struct {
	// Source provides band structures. Required by Run.
	Source materials.Source

	// Player plays each chord. A nil Player computes results without
	// producing audio.
	Player player.Player

	// SampleRate of the synthesized chord; zero means
	// chord.DefaultSampleRate.
	SampleRate int

	// ChordOptions are applied to every chord, e.g. chord.WithRawSum().
	ChordOptions []chord.Option

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (s *Sonifier) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Run sonifies every material in req.IDs in order. It stops at the first
// error and returns the results gathered so far.
func (s *Sonifier) Run(ctx context.Context, req Request) ([]Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.Source == nil {
		return nil, errors.New("sonify: no material source")
	}

	results := make([]Result, 0, len(req.IDs))
	for _, id := range req.IDs {
		bs, err := s.Source.BandStructure(ctx, id)
		if err != nil {
			return results, fmt.Errorf("sonify: %s: %w", id, err)
		}
		thz := bs.GammaFrequencies()
		s.logger().Info("phonon frequencies", "id", id, "thz", thz)

		res, err := s.sonify(ctx, id, thz, &req)
		if err != nil {
			return results, fmt.Errorf("sonify: %s: %w", id, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// RunMesh sonifies the Γ-point frequencies of a phonopy mesh.yaml. IDs in
// req are ignored except that the first, if any, names the result.
func (s *Sonifier) RunMesh(ctx context.Context, r io.Reader, req Request) (Result, error) {
	if err := req.validateParams(); err != nil {
		return Result{}, err
	}
	name := "mesh"
	if len(req.IDs) > 0 && req.IDs[0] != "" {
		name = req.IDs[0]
	}

	mesh, err := phonon.ParseMesh(r)
	if err != nil {
		return Result{}, fmt.Errorf("sonify: %s: %w", name, err)
	}
	thz, err := mesh.GammaFrequencies()
	if err != nil {
		return Result{}, fmt.Errorf("sonify: %s: %w", name, err)
	}
	s.logger().Info("phonon frequencies", "id", name, "thz", thz)

	res, err := s.sonify(ctx, name, thz, &req)
	if err != nil {
		return Result{}, fmt.Errorf("sonify: %s: %w", name, err)
	}
	return res, nil
}

func (s *Sonifier) sonify(ctx context.Context, id string, thz []float64, req *Request) (Result, error) {
	excited, err := phonon.ExciteByHeat(thz, req.Temperature)
	if err != nil {
		return Result{}, err
	}
	hz, err := phonon.ToAudible(excited, req.Range())
	if err != nil {
		return Result{}, err
	}
	res := Result{ID: id, PhononTHz: excited, AudibleHz: hz}
	s.logger().Info("audible frequencies", "id", id, "hz", hz, "temperature", req.Temperature)

	if s.Player == nil {
		return res, nil
	}
	c := chord.New(hz, s.SampleRate, s.ChordOptions...)
	if err := s.Player.Play(ctx, c, req.Duration); err != nil {
		return res, err
	}
	return res, nil
}
