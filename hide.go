package depths

import (
	"fmt"

	"github.com/zedseven/depths/internal/util"
)

// HideConfig stores the configuration options for the Hide operation.
type HideConfig struct {
	// ImagePath is the path on disk to a supported image.
	ImagePath string
	// OutPath is the path on disk to write the output image. It must name a lossless format (png, bmp, tiff).
	// It may be the same as ImagePath.
	OutPath string
	// Message is the ASCII text written into the red channel, one character per pixel.
	Message string
	// X and Y are the coordinates of the first pixel of the run.
	X, Y int
	// OutputLevel is the amount of output to provide.
	OutputLevel OutputLevel
}

// Hide writes config.Message into the red channel of the image on disk, one byte per pixel, and saves the result.
// If the message does not fit at (X, Y) it is written at the origin instead. The run actually written is returned.
func Hide(config *HideConfig) (Run, error) {
	// Input validation
	if len(config.ImagePath) <= 0 {
		return Run{}, &InvalidFormatError{"ImagePath is empty."}
	}
	if len(config.OutPath) <= 0 {
		return Run{}, &InvalidFormatError{"OutPath is empty."}
	}
	if len(config.Message) <= 0 {
		return Run{}, &InvalidFormatError{"Message is empty."}
	}
	for i := 0; i < len(config.Message); i++ {
		if !util.Printable(int(config.Message[i])) {
			return Run{}, &InvalidFormatError{fmt.Sprintf("Message contains a non-printable byte (%d) at index %d.", config.Message[i], i)}
		}
	}
	if config.X < 0 || config.Y < 0 {
		return Run{}, &InvalidFormatError{fmt.Sprintf("Coordinates must be non-negative: Provided (%d, %d).", config.X, config.Y)}
	}
	if _, err := formatForPath(config.OutPath); err != nil {
		return Run{}, err
	}

	printlnLvl(config.OutputLevel, OutputDebug, "This tool has been set to display debug output.")

	printlnLvl(config.OutputLevel, OutputSteps, fmt.Sprintf("Encoding '%v' in the red channel...", config.Message))
	grid, err := LoadImage(config.ImagePath, config.OutputLevel)
	if err != nil {
		printlnLvl(config.OutputLevel, OutputSteps, fmt.Sprintf("Unable to load the image at '%v'!", config.ImagePath))
		return Run{}, err
	}

	run, warnings := Encode(grid, config.X, config.Y, []byte(config.Message))
	printWarnings(config.OutputLevel, warnings)

	for i := 0; i < run.Length; i++ {
		if v, ok := readChannel(grid, run.X+i, run.Y); ok {
			printfLvl(config.OutputLevel, OutputInfo, "Modified pixel at (%d, %d): R=%d, ASCII = %c\n", run.X+i, run.Y, v, util.ToASCII(int(v)))
		}
	}

	if err = WriteImage(grid, config.OutPath, config.OutputLevel); err != nil {
		printlnLvl(config.OutputLevel, OutputSteps, "An error occurred while writing to the final image.")
		return run, err
	}

	printlnLvl(config.OutputLevel, OutputSteps, "Red channel encoding completed successfully.")

	return run, nil
}
