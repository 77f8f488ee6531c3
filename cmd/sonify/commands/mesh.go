package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/NU-CEM/singing-materials-online/pkg/sonify"
)

var meshFlags soundFlags

var meshCmd = &cobra.Command{
	Use:   "mesh <mesh.yaml> [name]",
	Short: "Play the phonon chord of a phonopy mesh.yaml",
	Long: `Read the Γ-point frequencies from a phonopy mesh.yaml (- for stdin)
and play them like 'sonify play'. No API key is needed.

Examples:
  sonify mesh mesh.yaml
  sonify mesh mesh.yaml CsPbI3 --player wav`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMesh,
}

func init() {
	meshFlags.register(meshCmd)
}

func runMesh(cmd *cobra.Command, args []string) error {
	var ids []string
	if len(args) > 1 {
		ids = args[1:]
	}
	req, err := meshFlags.request(cmd, ids)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open mesh: %w", err)
		}
		defer f.Close()
		r = f
	}

	name := "mesh"
	if len(req.IDs) > 0 {
		name = req.IDs[0]
	}
	env, factory, err := meshFlags.env(cmd, []string{name})
	if err != nil {
		return err
	}
	defer env.Close()

	s := meshFlags.sonifier()
	if factory != nil {
		p, err := factory(env, name)
		if err != nil {
			return err
		}
		s.Player = p
	}

	res, err := s.RunMesh(ctx, r, req)
	if err != nil {
		return err
	}
	return meshFlags.printResults([]sonify.Result{res})
}
