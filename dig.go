package depths

import (
	"fmt"
	"io"

	"github.com/zedseven/depths/internal/algos"
)

// Types

// DigConfig stores the configuration options for the Dig operation.
type DigConfig struct {
	ImagePath   string      // The path on disk to a supported image.
	X           int         // The x coordinate of the first cell of the run.
	Y           int         // The row the run lies on.
	Length      int         // The number of cells to read.
	OutputLevel OutputLevel // The amount of output to provide.
}

// Primary method

// Dig loads the image at config.ImagePath and decodes the red channel run described by config.
// If the image cannot be loaded the returned Reading is empty and the error says why.
// Bounds problems are never returned as errors; they are printed and kept in the Reading's Warnings.
func Dig(config DigConfig) (Reading, error) {
	// Input validation
	if len(config.ImagePath) <= 0 {
		return Reading{}, &InvalidFormatError{"ImagePath is empty."}
	}
	if config.Length < 0 || config.Length > algos.MaxRunLength {
		return Reading{}, &InvalidFormatError{fmt.Sprintf("Length must be between 0 and %d: Provided %d.", algos.MaxRunLength, config.Length)}
	}
	if config.X < 0 || config.Y < 0 {
		return Reading{}, &InvalidFormatError{fmt.Sprintf("Coordinates must be non-negative: Provided (%d, %d).", config.X, config.Y)}
	}

	printlnLvl(config.OutputLevel, OutputDebug, "This tool has been set to display debug output.")

	printlnLvl(config.OutputLevel, OutputInfo, fmt.Sprintf("Loading the image from '%v'...", config.ImagePath))
	grid, err := LoadImage(config.ImagePath, config.OutputLevel)
	if err != nil {
		printlnLvl(config.OutputLevel, OutputSteps, fmt.Sprintf("Error processing image: %v", err.Error()))
		return Reading{}, err
	}

	reading := Decode(grid, config.X, config.Y, config.Length)
	printWarnings(config.OutputLevel, reading.Warnings)

	printlnLvl(config.OutputLevel, OutputDebug, "Read run:", reading.Text)

	return reading, nil
}

// WriteReport prints the red channel analysis of a reading.
func WriteReport(w io.Writer, reading Reading) error {
	var err error
	p := func(format string, a ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, a...)
		}
	}

	p("\n=== Red Channel Analysis ===\n")
	p("Starting position: (%d, %d)\n", reading.Run.X, reading.Run.Y)
	p("Length: %d pixels\n\n", reading.Run.Length)

	if len(reading.Samples) > 0 {
		p("Pixel values:\n")
		for i, s := range reading.Samples {
			if !s.Readable {
				continue
			}
			p("Pixel %d: Red value = %d, ASCII = %c\n", i+1, s.Value, s.Char())
		}
		p("\nComplete message: %v\n", reading.Text)
	}

	return err
}

// Helper functions

func printWarnings(outputLevel OutputLevel, warnings []error) {
	for _, w := range warnings {
		switch w := w.(type) {
		case *BoundsError:
			printlnLvl(outputLevel, OutputSteps, "Warning: Coordinates may be out of bounds!")
			printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("Image dimensions: %dx%d", w.W, w.H))
			printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("Requested coordinates: (%d,%d) to (%d,%d)", w.Run.X, w.Run.Y, w.Run.End(), w.Run.Y))
		case *RelocatedError:
			printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("Warning: Image is too small! Dimensions are %dx%d", w.W, w.H))
			printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("Using coordinates (%d,%d) instead of (%d,%d)", w.Actual.X, w.Actual.Y, w.Requested.X, w.Requested.Y))
		default:
			printlnLvl(outputLevel, OutputSteps, "Error:", w.Error())
		}
	}
}
