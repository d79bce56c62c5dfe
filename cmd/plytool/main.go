// Command plytool inspects and converts PLY geometry files.
package main

import (
	"os"

	"github.com/banshee-data/plykit/internal/fsutil"
)

func main() {
	if err := newRootCmd(fsutil.OSFileSystem{}).Execute(); err != nil {
		os.Exit(1)
	}
}
