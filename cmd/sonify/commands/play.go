package commands

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/NU-CEM/singing-materials-online/pkg/sonify"
)

var playFlags soundFlags

var playCmd = &cobra.Command{
	Use:   "play [mp-id...]",
	Short: "Play the phonon chord of one or more materials",
	Long: `Fetch the Γ-point phonon frequencies of each material from the
Materials Project, keep the modes with a Bose-Einstein occupation of at
least 1, map them linearly onto 20-8000 Hz and play them together.

Materials are played one after another. Without --min-phonon and
--max-phonon each material is scaled to its own lowest and highest
excited mode; give both to compare materials on one scale.

Examples:
  sonify play mp-149
  sonify play mp-149 mp-2534 --min_phonon 0 --max_phonon 20 --timelength 3
  sonify play mp-149 --player wav --wav si.wav --output-dir s3://bucket/sounds
  sonify play mp-149 --player pcm | aplay -f cd
  sonify play -f request.yaml`,
	RunE: runPlay,
}

func init() {
	playFlags.register(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	req, err := playFlags.request(cmd, args)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	src, closeSrc, err := openSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	env, factory, err := playFlags.env(cmd, req.IDs)
	if err != nil {
		return err
	}
	defer env.Close()

	s := playFlags.sonifier()
	s.Source = src

	var results []sonify.Result
	for _, id := range req.IDs {
		s.Player = nil
		if factory != nil {
			p, err := factory(env, id)
			if err != nil {
				return err
			}
			s.Player = p
		}
		one := req
		one.IDs = []string{id}
		res, err := s.Run(ctx, one)
		results = append(results, res...)
		if err != nil {
			return playFlags.finish(results, err)
		}
	}
	return playFlags.finish(results, nil)
}
