package main

import (
	"github.com/spf13/cobra"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info ROM",
		Short: "Print header, overlay tables and banner as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  infoAction,
	}
}

func infoAction(cmd *cobra.Command, args []string) error {
	rom, buf, err := openRom(cmd, args[0])
	if err != nil {
		return err
	}
	defer buf.Close()
	defer rom.Close()

	manifest, err := rom.Manifest()
	if err != nil {
		return err
	}
	return manifest.WriteYAML(cmd.OutOrStdout())
}
