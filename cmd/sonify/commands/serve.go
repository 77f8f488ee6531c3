package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NU-CEM/singing-materials-online/pkg/webform"
)

var (
	serveAddr   string
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form",
	Long: `Serve a web form where material ids, phonon range and duration can be
entered. Each submission runs 'sonify play' as a subprocess on this
machine; the sound plays on the server's speakers.

The density of states plot is written to --static and served under
/static/.

Examples:
  sonify serve
  sonify -c lab serve --addr :8080 --static ./static`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", webform.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&serveStatic, "static", "static", `directory for plots served under /static/ ("" disables plotting)`)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveStatic != "" {
		if err := os.MkdirAll(serveStatic, 0755); err != nil {
			return fmt.Errorf("failed to create static directory: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := webform.New(webform.Config{
		Addr:      serveAddr,
		StaticDir: serveStatic,
		Runner:    webform.ExecRunner{Stdout: os.Stderr},
		ExtraArgs: forwardedFlags(),
		Logger:    slog.Default(),
	})
	printVerbose("Subprocess flags: %v", forwardedFlags())
	return srv.ListenAndServe(ctx)
}

// forwardedFlags returns the global flags the subprocesses must share with
// this process.
func forwardedFlags() []string {
	var args []string
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}
	if contextName != "" {
		args = append(args, "--context", contextName)
	}
	if cacheDir != "" {
		args = append(args, "--cache-dir", cacheDir)
	}
	if verbose {
		args = append(args, "--verbose")
	}
	return args
}
