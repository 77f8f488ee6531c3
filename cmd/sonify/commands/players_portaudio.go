//go:build portaudio

package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/NU-CEM/singing-materials-online/pkg/audio/player"
	"github.com/NU-CEM/singing-materials-online/pkg/audio/portaudio"
	"github.com/NU-CEM/singing-materials-online/pkg/cli"
)

// outputDevice is the --device index shared by play and mesh.
var outputDevice int

func init() {
	players["portaudio"] = newPortAudioPlayer
	for _, cmd := range []*cobra.Command{playCmd, meshCmd} {
		cmd.Flags().IntVar(&outputDevice, "device", -1, "portaudio output device index from 'sonify devices' (-1: system default)")
	}
	rootCmd.AddCommand(devicesCmd)
}

// newPortAudioPlayer opens a stream per material; the stream holds its own
// PortAudio initialization.
func newPortAudioPlayer(e *playerEnv, _ string) (player.Player, error) {
	return player.NewPortAudio(outputDevice, player.DefaultBlockSize, e.logger), nil
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the audio output devices for --player portaudio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := portaudio.OutputDevices()
		if err != nil {
			return fmt.Errorf("list output devices: %w", err)
		}
		if isJSONOutput() || outputFile != "" {
			return outputResult(devices, outputFile, isJSONOutput())
		}
		def, err := portaudio.DefaultOutputDevice()
		if err != nil && !errors.Is(err, portaudio.ErrNoDevice) {
			return err
		}
		return cli.Output(devicesTable(devices, def), cli.OutputOptions{Format: cli.FormatTable})
	},
}

// devicesTable lists output devices, marking the default. def may be nil.
func devicesTable(devices []portaudio.DeviceInfo, def *portaudio.DeviceInfo) cli.Table {
	t := cli.Table{
		Title:   "Output devices",
		Headers: []string{"DEFAULT", "INDEX", "NAME", "CHANNELS", "RATE", "LATENCY"},
		Footer:  "no default output device",
	}
	for _, d := range devices {
		mark := ""
		if d.IsDefaultOutput {
			mark = "*"
		}
		t.Rows = append(t.Rows, []string{
			mark,
			strconv.Itoa(d.Index),
			d.Name,
			strconv.Itoa(d.MaxOutputChannels),
			cli.FormatHz(d.DefaultSampleRate),
			fmt.Sprintf("%.0f ms", d.DefaultLowOutputLatency*1000),
		})
	}
	if def != nil {
		t.Footer = fmt.Sprintf("default: %d %s", def.Index, def.Name)
	}
	return t
}
