package depths

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zedseven/depths/internal/algos"
)

// Check is the outcome of one verification of a built challenge.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// BuildReport describes a built challenge.
type BuildReport struct {
	ChallengePath string
	Run           Run     // Where the message was actually written.
	Failures      []error // Steps that failed without stopping the build.
	Checks        []Check
}

// OK reports whether every step succeeded and every check passed.
func (r *BuildReport) OK() bool {
	if len(r.Failures) > 0 {
		return false
	}
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Build creates a layered challenge image: the message in the red channel, a hex hint in the image comment and one
// password-protected payload per layer. The layers are independent of each other.
//
// Only the steps that produce the challenge image (writing the payload files, preparing the image and encoding the
// message) can fail the build. Tagging, embedding and verification failures are printed with the tool output and
// collected in the report, and the remaining steps still run.
func Build(ctx context.Context, config BuildConfig, tagger MetadataTagger, embedder PayloadEmbedder) (*BuildReport, error) {
	// Input validation
	if len(config.InputPath) <= 0 {
		return nil, &InvalidFormatError{"InputPath is empty."}
	}
	if _, err := os.Stat(config.InputPath); err != nil {
		printlnLvl(config.OutputLevel, OutputSteps, fmt.Sprintf("Error: Image file %v not found.", config.InputPath))
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	lvl := config.OutputLevel
	printlnLvl(lvl, OutputInfo, fmt.Sprintf("depths v%v", Version()))
	printlnLvl(lvl, OutputDebug, "This tool has been set to display debug output.")

	report := &BuildReport{ChallengePath: filepath.Join(config.WorkDir, config.ChallengeName)}

	if err := writeLayerFiles(config); err != nil {
		return report, err
	}

	printlnLvl(lvl, OutputSteps, fmt.Sprintf("Preparing image from %v...", config.InputPath))
	if err := prepareImage(config.InputPath, report.ChallengePath, lvl); err != nil {
		return report, err
	}
	printlnLvl(lvl, OutputSteps, fmt.Sprintf("Image prepared and saved as %v", report.ChallengePath))

	run, err := Hide(&HideConfig{
		ImagePath:   report.ChallengePath,
		OutPath:     report.ChallengePath,
		Message:     config.Message,
		X:           config.X,
		Y:           config.Y,
		OutputLevel: lvl,
	})
	if err != nil {
		return report, err
	}
	report.Run = run

	printlnLvl(lvl, OutputSteps, "Adding EXIF metadata...")
	if err = tagger.Tag(ctx, report.ChallengePath, config.CommentPrefix+HexHint(config.HintText)); err != nil {
		printToolFailure(lvl, "Error adding EXIF metadata", err)
		report.Failures = append(report.Failures, err)
	} else {
		printlnLvl(lvl, OutputSteps, "EXIF metadata added successfully.")
	}

	for _, l := range config.Layers {
		printlnLvl(lvl, OutputSteps, fmt.Sprintf("Embedding %v with password '%v'...", l.File, l.Password))
		payload := filepath.Join(config.WorkDir, l.File)
		if err = embedder.Embed(ctx, report.ChallengePath, payload, l.Password, report.ChallengePath); err != nil {
			printToolFailure(lvl, "Error embedding file", err)
			report.Failures = append(report.Failures, err)
			continue
		}
		printlnLvl(lvl, OutputSteps, fmt.Sprintf("Successfully embedded %v.", l.File))
	}

	report.Checks = verify(ctx, config, report.ChallengePath, run, tagger, embedder)

	return report, nil
}

// Verify checks an existing challenge image against config: the comment hint, the red channel message and every
// payload layer. The message is looked for where Build put it, which is the origin when (X, Y) does not fit the image.
func Verify(ctx context.Context, config BuildConfig, tagger MetadataTagger, embedder PayloadEmbedder) []Check {
	path := filepath.Join(config.WorkDir, config.ChallengeName)
	run := Run{config.X, config.Y, len(config.Message)}
	if grid, err := LoadImage(path, OutputNone); err == nil && !algos.Fits(run.X, run.Y, run.Length, grid.W, grid.H) {
		printlnLvl(config.OutputLevel, OutputInfo, fmt.Sprintf("The message does not fit at (%d,%d); checking (0,0) instead.", run.X, run.Y))
		run = Run{0, 0, run.Length}
	}
	return verify(ctx, config, path, run, tagger, embedder)
}

// Helper functions

func verify(ctx context.Context, config BuildConfig, path string, run Run, tagger MetadataTagger, embedder PayloadEmbedder) []Check {
	lvl := config.OutputLevel
	var checks []Check
	record := func(c Check) {
		if c.Passed {
			printlnLvl(lvl, OutputSteps, fmt.Sprintf("✓ %v verification passed. %v", c.Name, c.Detail))
		} else {
			printlnLvl(lvl, OutputSteps, fmt.Sprintf("✗ %v verification failed. %v", c.Name, c.Detail))
		}
		checks = append(checks, c)
	}

	printlnLvl(lvl, OutputSteps, "\nVerifying challenge...")

	hint := HexHint(config.HintText)
	comment, err := tagger.Comment(ctx, path)
	switch {
	case err != nil:
		record(Check{Name: "EXIF metadata", Detail: err.Error()})
	case strings.Contains(comment, hint):
		record(Check{Name: "EXIF metadata", Passed: true})
	default:
		record(Check{Name: "EXIF metadata", Detail: fmt.Sprintf("Comment: %q", comment)})
	}

	reading, err := Dig(DigConfig{ImagePath: path, X: run.X, Y: run.Y, Length: run.Length, OutputLevel: OutputNone})
	switch {
	case err != nil:
		record(Check{Name: "Red channel", Detail: err.Error()})
	case reading.Text == config.Message:
		record(Check{Name: "Red channel", Passed: true, Detail: "Message: " + reading.Text})
	default:
		record(Check{Name: "Red channel", Detail: "Message: " + reading.Text})
	}

	for i, l := range config.Layers {
		name := fmt.Sprintf("Layer %d (%v)", i+1, l.File)
		out := filepath.Join(config.WorkDir, strings.TrimSuffix(l.File, filepath.Ext(l.File))+"_test"+filepath.Ext(l.File))
		if err := embedder.Extract(ctx, path, l.Password, out); err != nil {
			var toolErr *ToolError
			if errors.As(err, &toolErr) {
				record(Check{Name: name, Detail: toolErr.Output})
			} else {
				record(Check{Name: name, Detail: err.Error()})
			}
			continue
		}
		got, err := os.ReadFile(out)
		switch {
		case err != nil:
			record(Check{Name: name, Detail: err.Error()})
		case string(got) != l.Text:
			record(Check{Name: name, Detail: "The extracted payload does not match."})
		default:
			record(Check{Name: name, Passed: true})
		}
	}

	return checks
}

func writeLayerFiles(config BuildConfig) error {
	printlnLvl(config.OutputLevel, OutputSteps, "Creating text files...")
	if err := os.MkdirAll(config.WorkDir, 0755); err != nil {
		return fmt.Errorf("failed to create work directory %s: %w", config.WorkDir, err)
	}
	for _, l := range config.Layers {
		if err := os.WriteFile(filepath.Join(config.WorkDir, l.File), []byte(l.Text), 0644); err != nil {
			return fmt.Errorf("failed to write payload file %s: %w", l.File, err)
		}
	}
	printlnLvl(config.OutputLevel, OutputSteps, "Text files created successfully.")
	return nil
}

func prepareImage(inPath, outPath string, outputLevel OutputLevel) error {
	grid, err := LoadImage(inPath, outputLevel)
	if err != nil {
		return err
	}
	rgb, err := grid.ToRGB()
	if err != nil {
		return err
	}
	return WriteImage(rgb, outPath, outputLevel)
}

func printToolFailure(outputLevel OutputLevel, what string, err error) {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("%v: %v", what, toolErr.Err.Error()))
		printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("Error output: %v", toolErr.Output))
		return
	}
	printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("%v: %v", what, err.Error()))
}
