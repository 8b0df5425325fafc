// Command ndsfs inspects and modifies Nintendo DS ROM images.
package main

import (
	"os"

	"github.com/aligator/ndsfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	if err := newApp().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newApp() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ndsfs",
		Short: "Browse, extract and rebuild Nintendo DS ROM images",
		Example: `  Show the header, overlays and banner:
  $ ndsfs info game.nds

  List all files of the data tree:
  $ ndsfs ls game.nds /data

  Replace a file and write a new image:
  $ ndsfs replace game.nds /data/readme.txt readme.txt -o patched.nds`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("debug", false, "Debug mode")
	rootCmd.PersistentFlags().String("mount", ndsfs.DefaultMountName, "Name of the directory the nitrofs data tree is visible at")
	rootCmd.PersistentFlags().Bool("progress", true, "Show a progress bar for long running commands")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return nil
	}

	rootCmd.AddCommand(
		newInfoCommand(),
		newLsCommand(),
		newExtractCommand(),
		newReplaceCommand(),
		newImportCommand(),
	)
	return rootCmd
}

// openRom opens the image at name read only.
func openRom(cmd *cobra.Command, name string) (*ndsfs.Fs, *ndsfs.FileBuffer, error) {
	mount, err := cmd.Flags().GetString("mount")
	if err != nil {
		return nil, nil, err
	}

	buf, err := ndsfs.OpenFileBuffer(afero.NewOsFs(), name, os.O_RDONLY)
	if err != nil {
		return nil, nil, err
	}

	rom, err := ndsfs.New(buf,
		ndsfs.WithMountName(mount),
		ndsfs.WithLogger(logrus.WithField("file", name)),
	)
	if err != nil {
		_ = buf.Close()
		return nil, nil, err
	}
	return rom, buf, nil
}

func reporter(cmd *cobra.Command) ndsfs.ProgressReporter {
	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		return ndsfs.NewProgressBar()
	}
	return ndsfs.LogReporter{Log: logrus.NewEntry(logrus.StandardLogger())}
}
