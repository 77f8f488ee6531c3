package commands

import (
	"bytes"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/NU-CEM/singing-materials-online/pkg/cli"
	"github.com/NU-CEM/singing-materials-online/pkg/dos"
	"github.com/NU-CEM/singing-materials-online/pkg/storage"
)

var (
	plotOutput    string
	plotOutputDir string
	plotWidth     float64
	plotHeight    float64
	plotDPI       int
)

var plotCmd = &cobra.Command{
	Use:   "plot <mp-id>",
	Short: "Plot the phonon density of states of a material",
	Long: `Fetch the phonon density of states and chemical formula of a material
and draw frequency against density as a PNG with a transparent background.

Examples:
  sonify plot mp-149
  sonify plot mp-149 --output si.png --output-dir s3://bucket/plots`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVar(&plotOutput, "output", dos.DefaultFilename, "image file name")
	plotCmd.Flags().StringVar(&plotOutputDir, "output-dir", "static", "directory or s3://bucket/prefix for the image")
	plotCmd.Flags().Float64Var(&plotWidth, "width", float64(dos.DefaultWidth/vg.Inch), "image width in inches")
	plotCmd.Flags().Float64Var(&plotHeight, "height", float64(dos.DefaultHeight/vg.Inch), "image height in inches")
	plotCmd.Flags().IntVar(&plotDPI, "dpi", dos.DefaultDPI, "image resolution")
}

func runPlot(cmd *cobra.Command, args []string) error {
	id := args[0]
	ctx := cmd.Context()

	src, closeSrc, err := openSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	var buf bytes.Buffer
	opts := dos.Options{
		Width:  vg.Length(plotWidth) * vg.Inch,
		Height: vg.Length(plotHeight) * vg.Inch,
		DPI:    plotDPI,
	}
	if err := dos.Render(ctx, src, id, &buf, opts); err != nil {
		return err
	}

	size := int64(buf.Len())

	fs, err := storage.Open(ctx, plotOutputDir)
	if err != nil {
		return err
	}
	if err := storage.Put(ctx, fs, plotOutput, &buf); err != nil {
		return err
	}

	where := plotOutputDir + "/" + plotOutput
	if l, ok := fs.(*storage.Local); ok {
		where = l.Path(plotOutput)
	}
	printVerbose("Wrote %s", cli.FormatBytes(size))
	if isJSONOutput() {
		return outputResult(map[string]string{"id": id, "path": where}, outputFile, true)
	}
	cli.PrintSuccess("Density of states for %s saved to %s", id, where)
	return nil
}

