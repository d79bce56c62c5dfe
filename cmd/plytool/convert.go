package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/banshee-data/plykit/internal/ply"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		format  string
		parents bool
	)
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a PLY file, optionally in another encoding",
		Long: `Convert decodes every element of <in> and writes it to <out>.
Comments of the input are kept. List properties must have the same length
on every row.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormatFlag(format)
			if err != nil {
				return err
			}
			h, t, err := a.codec(ply.FormatUnknown).Load(args[0])
			if err != nil {
				return err
			}
			if parents {
				if err := a.fs.MkdirAll(filepath.Dir(args[1]), 0o755); err != nil {
					return fmt.Errorf("create parent of %s: %w", args[1], err)
				}
			}
			out := a.codec(f, h.Comments...)
			if err := out.SaveGeneric(args[1], t); err != nil {
				return err
			}
			written := out.Options().Format
			if written == ply.FormatUnknown {
				written = ply.HostFormat()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d elements)\n", args[1], written, t.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output encoding: host, ascii, binary_little_endian, binary_big_endian (default from config, else host)")
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parent directories of <out>")
	return cmd
}
