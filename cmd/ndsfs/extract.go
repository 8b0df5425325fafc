package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract ROM DIR",
		Short: "Extract every file of the image into a local directory",
		Args:  cobra.ExactArgs(2),
		RunE:  extractAction,
	}
}

func extractAction(cmd *cobra.Command, args []string) error {
	rom, buf, err := openRom(cmd, args[0])
	if err != nil {
		return err
	}
	defer buf.Close()
	defer rom.Close()

	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(args[1], 0o755); err != nil {
		return err
	}

	return rom.Extract(afero.NewBasePathFs(osFs, args[1]), "/", reporter(cmd))
}
