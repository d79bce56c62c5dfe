package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/plykit/internal/ply"
)

func newMatrixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "matrix <file>",
		Short: "Read a single-element float file in one block and summarise its columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, names, err := a.codec(ply.FormatUnknown).LoadFloatMatrix(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %d rows x %d columns\n", args[0], b.Rows(), b.Cols())
			m := b.Dense()
			if m == nil {
				return nil
			}
			col := make([]float64, b.Rows())
			for j, name := range names {
				mat.Col(col, j, m)
				fmt.Fprintf(w, "  %-12s min %-12g max %-12g mean %g\n",
					name, floats.Min(col), floats.Max(col), floats.Sum(col)/float64(len(col)))
			}
			return nil
		},
	}
}
