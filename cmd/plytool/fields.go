package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/plykit/internal/geometry"
	"github.com/banshee-data/plykit/internal/ply"
)

func newFieldsCmd(a *app) *cobra.Command {
	var mesh bool
	cmd := &cobra.Command{
		Use:   "fields <file>",
		Short: "Load a file as a point cloud or mesh and list its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := geometry.PointCloudSpec
			if mesh {
				spec = geometry.MeshSpec
			}
			g, err := spec.LoadWith(a.codec(ply.FormatUnknown), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s:\n", spec.Name())
			for _, f := range spec.Fields() {
				src := fmt.Sprintf("%s[%s]", f.Element, strings.Join(f.Properties, ","))
				b, ok := g.Field(f.Name).Get()
				if !ok {
					fmt.Fprintf(w, "  %-8s %-28s none\n", f.Name, src)
					continue
				}
				fmt.Fprintf(w, "  %-8s %-28s shape %v, %s\n", f.Name, src, b.Shape(), b.DType())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mesh, "mesh", false, "require faces and load as a mesh")
	return cmd
}
