package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/zedseven/depths"
)

// toolset picks the external tools a build is run with.
type toolset func(config depths.BuildConfig) (depths.MetadataTagger, depths.PayloadEmbedder)

func externalTools(config depths.BuildConfig) (depths.MetadataTagger, depths.PayloadEmbedder) {
	return depths.ExifTool{Path: config.ExifToolPath}, depths.Steghide{Path: config.SteghidePath}
}

// Program entry point

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, externalTools)
	stop()
	os.Exit(code)
}

// run returns the process exit code.
func run(ctx context.Context, args []string, out io.Writer, tools toolset) int {
	depths.Output = out

	fs := flag.NewFlagSet("bury", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "challenge.yml", "The YAML file describing the challenge; defaults are used if it does not exist")
	inputPath := fs.String("input", "", "The filepath to the source image (overrides the config file)")
	workDir := fs.String("out", "", "The directory to write the challenge into (overrides the config file)")
	verifyOnly := fs.Bool("verify", false, "Only verify an existing challenge image")
	verbosity := fs.String("output", "steps", "The amount of output to provide (none, steps, info, debug)")
	usage := func() {
		fmt.Fprintln(out, "Usage: bury [options] <input_image>")
		fmt.Fprintln(out, "Example: bury base.jpg")
		fs.PrintDefaults()
	}
	fs.Usage = usage

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 && len(*inputPath) <= 0 {
		*inputPath = fs.Arg(0)
	}

	outputLevel := depths.StringToOutputLevel(*verbosity)
	config, err := depths.LoadBuildConfig(*configPath, outputLevel)
	if err != nil {
		fmt.Fprintln(out, "Error:", err.Error())
		return 1
	}
	if len(*inputPath) > 0 {
		config.InputPath = *inputPath
	}
	if len(*workDir) > 0 {
		config.WorkDir = *workDir
	}

	tagger, embedder := tools(config)

	if *verifyOnly {
		for _, c := range depths.Verify(ctx, config, tagger, embedder) {
			if !c.Passed {
				return 1
			}
		}
		return 0
	}

	if len(config.InputPath) <= 0 {
		usage()
		return 1
	}

	report, err := depths.Build(ctx, config, tagger, embedder)
	if err != nil {
		fmt.Fprintln(out, "Error:", err.Error())
		return 1
	}

	fmt.Fprintln(out, "\nChallenge creation completed successfully!")
	fmt.Fprintln(out, "Final challenge file:", report.ChallengePath)
	if !report.OK() {
		fmt.Fprintln(out, "Some steps or checks failed; see above.")
	}
	fmt.Fprintln(out, "Remember to include only the challenge file in your distribution, not the source files.")
	return 0
}
