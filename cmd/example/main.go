package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aligator/ndsfs"
	"github.com/spf13/afero"
)

// main is just a example main to play with ndsfs.
func main() {
	argsWithoutProg := os.Args[1:]
	if len(argsWithoutProg) <= 0 {
		fmt.Println("Please provide a filename.")
		os.Exit(1)
	}

	buf, err := ndsfs.OpenFileBuffer(afero.NewOsFs(), argsWithoutProg[0], os.O_RDONLY)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer buf.Close()

	rom, err := ndsfs.New(buf)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer rom.Close()

	fmt.Printf("Opened rom '%v' with game code %v\n\n", rom.Header().GameTitle(), rom.Header().GameCode())

	afero.Walk(rom, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			fmt.Println(err)
			return err
		}
		fmt.Println(path, info.IsDir(), info.Size())
		return nil
	})

	file, err := rom.Open("/header.bin")
	if err != nil {
		fmt.Println("could not open the header", err)
		os.Exit(1)
	}

	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		fmt.Println("could not stat the file", err)
		os.Exit(1)
	}

	buffer := make([]byte, 12)
	n, err := file.Read(buffer)
	if err != nil {
		fmt.Println("could not read the file", err)
		os.Exit(1)
	}
	fmt.Println(stat.Size(), n)
	fmt.Printf("\n\nTitle from %s: %q\n", stat.Name(), buffer)

	offset, err := file.Seek(0xC, io.SeekStart)
	if err != nil {
		fmt.Println("could not seek", err)
		os.Exit(1)
	}

	buffer = make([]byte, 4)
	n, err = file.Read(buffer)
	if err != nil {
		fmt.Println("could not read the file", err)
		os.Exit(1)
	}
	fmt.Printf("Game code at 0x%X using an offset and small buffer: %q (%d bytes)\n", offset, buffer, n)
}
