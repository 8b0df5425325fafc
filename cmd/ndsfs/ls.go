package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsCommand() *cobra.Command {
	lsCommand := &cobra.Command{
		Use:   "ls ROM [DIR] [PATTERN]",
		Short: "List files and directories",
		Long: `List files and directories below DIR (default "/").
PATTERN may use '*' and '?' and is matched case insensitive against the names.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: lsAction,
	}
	lsCommand.Flags().Bool("top", false, "Do not descend into subdirectories")
	lsCommand.Flags().BoolP("long", "l", false, "Print the size of every file")
	return lsCommand
}

func lsAction(cmd *cobra.Command, args []string) error {
	dir, pattern := "/", "*"
	if len(args) > 1 {
		dir = args[1]
	}
	if len(args) > 2 {
		pattern = args[2]
	}
	top, err := cmd.Flags().GetBool("top")
	if err != nil {
		return err
	}
	long, err := cmd.Flags().GetBool("long")
	if err != nil {
		return err
	}

	rom, buf, err := openRom(cmd, args[0])
	if err != nil {
		return err
	}
	defer buf.Close()
	defer rom.Close()

	dirs, err := rom.GetDirectories(dir, pattern, top)
	if err != nil {
		return err
	}
	files, err := rom.GetFiles(dir, pattern, top)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, d := range dirs {
		fmt.Fprintln(out, d+"/")
	}
	for _, f := range files {
		if !long {
			fmt.Fprintln(out, f)
			continue
		}
		info, err := rom.Stat(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%10d %s\n", info.Size(), f)
	}
	return nil
}
