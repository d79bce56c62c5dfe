package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/plykit/internal/geometry"
	"github.com/banshee-data/plykit/internal/ply"
	"github.com/banshee-data/plykit/internal/preview"
)

func newPlotCmd(a *app) *cobra.Command {
	opts := preview.DefaultScatterOptions()
	cmd := &cobra.Command{
		Use:   "plot <file> <image>",
		Short: "Render a projected scatter plot of a point cloud",
		Long: `Plot loads <file> as a point cloud and draws its points projected onto
two axes. The image format follows the extension of <image> (png, svg, pdf).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := geometry.LoadPointCloud(a.codec(ply.FormatUnknown), args[0])
			if err != nil {
				return err
			}
			if opts.Title == "" {
				opts.Title = args[0]
			}
			if err := preview.SaveScatter(a.fs, pc, args[1], opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d points)\n", args[1], pc.NumVertices())
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Axes, "axes", opts.Axes, "projection plane: xy, xz or yz")
	cmd.Flags().IntVar(&opts.MaxPoints, "max-points", opts.MaxPoints, "draw at most this many points (0 = all)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "plot title (default: input path)")
	return cmd
}
