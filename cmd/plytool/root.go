package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/plykit/internal/config"
	"github.com/banshee-data/plykit/internal/fsutil"
	"github.com/banshee-data/plykit/internal/monitoring"
	"github.com/banshee-data/plykit/internal/ply"
)

// app is the state shared by all subcommands, set up before any of them run.
type app struct {
	fs         fsutil.FileSystem
	configPath string
	verbose    bool

	cfg *config.CodecConfig
}

// codec returns a codec over the app filesystem with format overriding the
// configured write format when it is not FormatUnknown.
func (a *app) codec(format ply.Format, comments ...string) *ply.Codec {
	opts := a.cfg.Options()
	if format != ply.FormatUnknown {
		opts.Format = format
	}
	opts.Comments = append(append([]string(nil), comments...), opts.Comments...)
	return ply.NewCodec(a.fs, opts)
}

func newRootCmd(fsys fsutil.FileSystem) *cobra.Command {
	a := &app{fs: fsys, cfg: config.EmptyCodecConfig()}

	root := &cobra.Command{
		Use:          "plytool",
		Short:        "Inspect and convert PLY geometry files",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.configPath != "" {
				cfg, err := config.LoadCodecConfigFS(a.fs, a.configPath)
				if err != nil {
					return err
				}
				a.cfg = cfg
			}
			level := a.cfg.GetLogLevel()
			if a.verbose {
				level = "debug"
			}
			monitoring.SetLogger(monitoring.Zerologf(monitoring.NewZerolog(cmd.ErrOrStderr(), level, true)))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "codec configuration file (.json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log codec diagnostics")

	root.AddCommand(
		newInfoCmd(a),
		newConvertCmd(a),
		newFieldsCmd(a),
		newMatrixCmd(a),
		newPlotCmd(a),
		newVersionCmd(),
	)
	return root
}

// parseFormatFlag maps a --format value to a Format. "" leaves the choice to
// the configuration.
func parseFormatFlag(s string) (ply.Format, error) {
	switch s {
	case "":
		return ply.FormatUnknown, nil
	case "host":
		return ply.HostFormat(), nil
	}
	f, ok := ply.ParseFormat(s)
	if !ok {
		return ply.FormatUnknown, fmt.Errorf("unknown format %q (want host, ascii, binary_little_endian or binary_big_endian)", s)
	}
	return f, nil
}
