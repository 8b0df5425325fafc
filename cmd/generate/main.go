package main

import (
	"os"
	"path/filepath"

	"github.com/aligator/ndsfs/internal/romtest"
)

// main for writing the synthetic test images. Can be executed using 'go generate' from the project root.
func main() {
	dest := "testdata"

	if err := os.MkdirAll(dest, 0o755); err != nil {
		panic(err)
	}

	images := map[string]romtest.Options{
		"synthetic.nds":        {},
		"synthetic-footer.nds": {Arm9Footer: true},
		"no-overlays.nds":      {NoOverlays: true},
	}

	for name, options := range images {
		if err := os.WriteFile(filepath.Join(dest, name), romtest.Build(options), 0o644); err != nil {
			panic(err)
		}
	}
}
