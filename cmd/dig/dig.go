package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zedseven/depths"
)

// Program entry point

func main() {
	run(os.Args[1:], os.Stdout)
}

// run always succeeds from the shell's point of view: every problem is printed to out.
func run(args []string, out io.Writer) {
	depths.Output = out

	fs := flag.NewFlagSet("dig", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(out, "Extract hidden message from an image's red channel")
		fmt.Fprintln(out, "Usage: dig [options] <image>")
		fs.PrintDefaults()
	}

	var config depths.DigConfig
	fs.IntVar(&config.X, "x", 42, "Starting x-coordinate")
	fs.IntVar(&config.X, "x-start", 42, "Starting x-coordinate")
	fs.IntVar(&config.Y, "y", 42, "Starting y-coordinate")
	fs.IntVar(&config.Y, "y-start", 42, "Starting y-coordinate")
	fs.IntVar(&config.Length, "l", 7, "Number of pixels to read")
	fs.IntVar(&config.Length, "length", 7, "Number of pixels to read")
	verbosity := fs.String("output", "steps", "The amount of output to provide (none, steps, info, debug)")

	// Flags may come before or after the image path
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) != 1 {
		fs.Usage()
		return
	}
	config.ImagePath = positional[0]
	config.OutputLevel = depths.StringToOutputLevel(*verbosity)

	reading, err := depths.Dig(config)
	if err != nil {
		// Load failures have already been printed by Dig
		var formatErr *depths.InvalidFormatError
		if errors.As(err, &formatErr) {
			fmt.Fprintln(out, "Error:", formatErr.Error())
		}
		return
	}
	if err = depths.WriteReport(out, reading); err != nil {
		fmt.Fprintln(out, "Error writing the report:", err.Error())
	}
}
