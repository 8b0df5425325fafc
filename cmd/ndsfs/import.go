package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newImportCommand() *cobra.Command {
	importCommand := &cobra.Command{
		Use:   "import ROM DIR [PATH]",
		Short: "Add every file of the local DIR below PATH (default the data directory) and write a new image",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  importAction,
	}
	importCommand.Flags().StringP("output", "o", "", "Path of the new image, must differ from ROM")
	return importCommand
}

func importAction(cmd *cobra.Command, args []string) error {
	output, err := outputFlag(cmd, args[0])
	if err != nil {
		return err
	}

	rom, buf, err := openRom(cmd, args[0])
	if err != nil {
		return err
	}
	defer buf.Close()
	defer rom.Close()

	target := "/" + rom.MountName()
	if len(args) > 2 {
		target = args[2]
	}

	source := afero.NewBasePathFs(afero.NewOsFs(), args[1])
	if err := rom.Import(source, target); err != nil {
		return err
	}
	return save(cmd, rom, output)
}
