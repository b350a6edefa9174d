package depths

import (
	"fmt"
	"io"
	"os"
)

// OutputLevel controls how much console output an operation produces.
type OutputLevel uint8

const (
	OutputNone  OutputLevel = iota // Print nothing.
	OutputSteps                    // Print each step, warnings and errors.
	OutputInfo                     // Also print per-pixel and image details.
	OutputDebug                    // Print everything.
)

// Output is where console messages are written.
var Output io.Writer = os.Stdout

func printlnLvl(outputLevel, minLevel OutputLevel, a ...interface{}) {
	if outputLevel < minLevel {
		return
	}
	fmt.Fprintln(Output, a...)
}

func printfLvl(outputLevel, minLevel OutputLevel, format string, a ...interface{}) {
	if outputLevel < minLevel {
		return
	}
	fmt.Fprintf(Output, format, a...)
}

// StringToOutputLevel parses a level name, returning OutputSteps if the name is not recognized.
func StringToOutputLevel(str string) OutputLevel {
	switch str {
	case "none", "quiet":
		return OutputNone
	case "info":
		return OutputInfo
	case "debug":
		return OutputDebug
	default:
		return OutputSteps
	}
}
