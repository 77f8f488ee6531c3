package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/chord"
	"github.com/NU-CEM/singing-materials-online/pkg/cli"
	"github.com/NU-CEM/singing-materials-online/pkg/phonon"
	"github.com/NU-CEM/singing-materials-online/pkg/sonify"
)

// soundFlags are shared by play and mesh.
type soundFlags struct {
	minPhonon   float64
	maxPhonon   float64
	timelength  float64
	temperature float64
	sampleRate  int
	rawSum      bool
	player      string
	wav         string
	outputDir   string
	requestFile string
	dryRun      bool
}

func (f *soundFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.minPhonon, "min-phonon", 0, "phonon frequency (THz) mapped to 20 Hz (default: lowest excited mode)")
	fs.Float64Var(&f.maxPhonon, "max-phonon", 0, "phonon frequency (THz) mapped to 8000 Hz (default: highest excited mode)")
	fs.Float64Var(&f.timelength, "timelength", sonify.DefaultDuration.Seconds(), "seconds to play each material")
	fs.Float64Var(&f.temperature, "temperature", phonon.RoomTemperature, "temperature (K) used to select excited modes")
	fs.IntVar(&f.sampleRate, "sample-rate", chord.DefaultSampleRate, "sample rate of the generated audio")
	fs.BoolVar(&f.rawSum, "raw-sum", false, "sum tones without normalizing (may clip)")
	fs.StringVar(&f.player, "player", "", "audio output: "+playerNames()+" (default "+defaultPlayer+")")
	fs.StringVar(&f.wav, "wav", "", "WAV file name for --player wav (default <id>.wav)")
	fs.StringVar(&f.outputDir, "output-dir", "", "directory or s3://bucket/prefix for WAV files (default .)")
	fs.StringVarP(&f.requestFile, "file", "f", "", "request file (YAML or JSON, - for stdin)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the frequencies without playing")
}

// request builds the request from the request file, if any, with flags
// given on the command line taking precedence.
func (f *soundFlags) request(cmd *cobra.Command, ids []string) (sonify.Request, error) {
	var req sonify.Request
	if f.requestFile != "" {
		if err := cli.LoadRequest(f.requestFile, &req); err != nil {
			return req, err
		}
	}
	fs := cmd.Flags()
	if len(ids) > 0 {
		req.IDs = ids
	}
	if fs.Changed("min-phonon") {
		req.MinPhonon = &f.minPhonon
	}
	if fs.Changed("max-phonon") {
		req.MaxPhonon = &f.maxPhonon
	}
	if fs.Changed("timelength") || req.Duration == 0 {
		if math.IsNaN(f.timelength) || math.IsInf(f.timelength, 0) {
			return req, fmt.Errorf("--timelength must be a finite number of seconds, got %g", f.timelength)
		}
		req.Duration = time.Duration(f.timelength * float64(time.Second))
	}
	if fs.Changed("temperature") || req.Temperature == 0 {
		req.Temperature = f.temperature
	}
	return req, nil
}

// sonifier returns a Sonifier without a source or player.
func (f *soundFlags) sonifier() *sonify.Sonifier {
	s := &sonify.Sonifier{
		SampleRate: f.sampleRate,
		Logger:     slog.Default(),
	}
	if f.rawSum {
		s.ChordOptions = append(s.ChordOptions, chord.WithRawSum())
	}
	return s
}

// env prepares player construction, falling back to the context's player
// and output directory.
func (f *soundFlags) env(cmd *cobra.Command, ids []string) (*playerEnv, playerFactory, error) {
	name := f.player
	outputDir := f.outputDir
	if c, err := getContext(); err == nil {
		if name == "" {
			name = c.Player
		}
		if outputDir == "" {
			outputDir = c.OutputDir
		}
	}
	if outputDir == "" {
		outputDir = "."
	}
	factory, err := lookupPlayer(name)
	if err != nil {
		return nil, nil, err
	}
	if name == "" {
		name = defaultPlayer
	}
	if f.dryRun {
		name = "none"
		factory = nil
	}
	printVerbose("Player: %s", name)
	f.player = name
	return &playerEnv{
		ctx:       cmd.Context(),
		outputDir: outputDir,
		wavName:   f.wav,
		ids:       ids,
		logger:    slog.Default(),
	}, factory, nil
}

// resultWriter keeps stdout clean when it carries raw PCM.
func (f *soundFlags) resultWriter() io.Writer {
	if f.player == "pcm" {
		return os.Stderr
	}
	return os.Stdout
}

// printResults writes the results as YAML or JSON, plus a table of the
// frequencies in verbose mode.
func (f *soundFlags) printResults(results []sonify.Result) error {
	if len(results) == 0 {
		return nil
	}
	if isVerbose() {
		if err := cli.Output(resultsTable(results), cli.OutputOptions{
			Format: cli.FormatTable,
			Writer: os.Stderr,
		}); err != nil {
			return err
		}
	}
	format := cli.FormatYAML
	if isJSONOutput() {
		format = cli.FormatJSON
	}
	opts := cli.OutputOptions{Format: format, File: outputFile}
	if outputFile == "" {
		opts.Writer = f.resultWriter()
	}
	return cli.Output(results, opts)
}

// finish prints whatever was played before err, keeping both errors.
func (f *soundFlags) finish(results []sonify.Result, err error) error {
	return errors.Join(err, f.printResults(results))
}

// resultsTable lists every played mode with its audible frequency.
func resultsTable(results []sonify.Result) cli.Table {
	t := cli.Table{
		Title:   "Thermally excited phonon modes",
		Headers: []string{"MATERIAL", "MODE", "PHONON", "AUDIBLE"},
	}
	modes := 0
	for _, r := range results {
		for i, thz := range r.PhononTHz {
			id := ""
			if i == 0 {
				id = r.ID
			}
			hz := ""
			if i < len(r.AudibleHz) {
				hz = cli.FormatHz(r.AudibleHz[i])
			}
			t.Rows = append(t.Rows, []string{id, fmt.Sprint(i + 1), cli.FormatTHz(thz), hz})
			modes++
		}
	}
	t.Footer = fmt.Sprintf("%d materials, %d modes", len(results), modes)
	return t
}
