package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aligator/ndsfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newReplaceCommand() *cobra.Command {
	replaceCommand := &cobra.Command{
		Use:   "replace ROM PATH FILE",
		Short: "Replace or add the file PATH with the local FILE and write a new image",
		Args:  cobra.ExactArgs(3),
		RunE:  replaceAction,
	}
	replaceCommand.Flags().StringP("output", "o", "", "Path of the new image, must differ from ROM")
	return replaceCommand
}

func replaceAction(cmd *cobra.Command, args []string) error {
	output, err := outputFlag(cmd, args[0])
	if err != nil {
		return err
	}

	data, err := afero.ReadFile(afero.NewOsFs(), args[2])
	if err != nil {
		return err
	}

	rom, buf, err := openRom(cmd, args[0])
	if err != nil {
		return err
	}
	defer buf.Close()
	defer rom.Close()

	if err := rom.WriteFile(args[1], data); err != nil {
		return err
	}
	return save(cmd, rom, output)
}

// outputFlag returns the --output path, which must not be the opened image
// as it is read while the new one is written.
func outputFlag(cmd *cobra.Command, input string) (string, error) {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	if output == "" {
		return "", errors.New("missing --output")
	}

	in, err := filepath.Abs(input)
	if err != nil {
		return "", err
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return "", err
	}
	if in == out {
		return "", errors.New("--output must differ from the input image")
	}
	return output, nil
}

func save(cmd *cobra.Command, rom *ndsfs.Fs, output string) error {
	dst, err := ndsfs.OpenFileBuffer(afero.NewOsFs(), output, os.O_RDWR|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}

	if err := rom.SaveWithProgress(dst, reporter(cmd)); err != nil {
		_ = dst.Close()
		return err
	}
	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		return err
	}

	logrus.Infof("written %s", output)
	return dst.Close()
}
