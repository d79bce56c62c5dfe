package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/banshee-data/plykit/internal/ply"
)

type propertyInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	List      bool   `json:"list,omitempty"`
	CountType string `json:"count_type,omitempty"`
}

type elementInfo struct {
	Name       string         `json:"name"`
	Count      int            `json:"count"`
	Properties []propertyInfo `json:"properties"`
}

type fileInfo struct {
	Path       string        `json:"path"`
	Format     string        `json:"format"`
	Version    string        `json:"version"`
	HeaderSize int64         `json:"header_bytes"`
	Comments   []string      `json:"comments,omitempty"`
	ObjInfo    []string      `json:"obj_info,omitempty"`
	Elements   []elementInfo `json:"elements"`
}

func describeHeader(path string, h *ply.Header) fileInfo {
	info := fileInfo{
		Path:       path,
		Format:     h.Format.String(),
		Version:    h.Version,
		HeaderSize: h.Size,
		Comments:   h.Comments,
		ObjInfo:    h.ObjInfo,
		Elements:   make([]elementInfo, 0, len(h.Elements)),
	}
	for _, e := range h.Elements {
		ei := elementInfo{Name: e.Name, Count: e.Count, Properties: make([]propertyInfo, 0, len(e.Properties))}
		for _, p := range e.Properties {
			pi := propertyInfo{Name: p.Name, Type: p.Type.String(), List: p.IsList}
			if p.IsList {
				pi.CountType = p.CountType.String()
			}
			ei.Properties = append(ei.Properties, pi)
		}
		info.Elements = append(info.Elements, ei)
	}
	return info
}

func newInfoCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the header of a PLY file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.codec(ply.FormatUnknown).ReadHeader(args[0])
			if err != nil {
				return err
			}
			info := describeHeader(args[0], h)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			return printInfo(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the header as JSON")
	return cmd
}

func printInfo(w io.Writer, info fileInfo) error {
	fmt.Fprintf(w, "%s: %s %s, header %d bytes\n", info.Path, info.Format, info.Version, info.HeaderSize)
	for _, c := range info.Comments {
		fmt.Fprintf(w, "  comment %s\n", c)
	}
	for _, o := range info.ObjInfo {
		fmt.Fprintf(w, "  obj_info %s\n", o)
	}
	for _, e := range info.Elements {
		fmt.Fprintf(w, "  element %s (%d rows)\n", e.Name, e.Count)
		for _, p := range e.Properties {
			if p.List {
				fmt.Fprintf(w, "    %-16s list %s %s\n", p.Name, p.CountType, p.Type)
				continue
			}
			fmt.Fprintf(w, "    %-16s %s\n", p.Name, p.Type)
		}
	}
	return nil
}
