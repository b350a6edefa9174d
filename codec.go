package depths

import (
	"github.com/zedseven/binmani"
	"github.com/zedseven/depths/internal/algos"
	"github.com/zedseven/depths/internal/util"
)

// Sample is the red channel value read from one cell of a run.
// A Sample that is not Readable stands in for a cell outside the grid (or missing from a malformed one).
type Sample struct {
	X, Y     int
	Value    uint8
	Readable bool
}

// Char returns the printable ASCII character for the sample, or '?'.
func (s Sample) Char() byte {
	if !s.Readable {
		return util.Placeholder
	}
	return util.ToASCII(int(s.Value))
}

// Reading is the best-effort result of decoding a run.
// Samples and Text have exactly Run.Length entries unless the length itself is invalid (negative or above
// algos.MaxRunLength), in which case both are empty. Anything that went wrong along the way is in Warnings.
type Reading struct {
	Run      Run
	Samples  []Sample
	Text     string
	Warnings []error
}

// Decode reads the red channel of every cell in the run starting at (x, y) and maps each value to ASCII.
// Bounds violations and unreadable cells never abort the run: they are recorded as warnings and the cell decodes to '?'.
// No channel other than ChannelRed is read.
func Decode(grid *Grid, x, y, length int) Reading {
	reading := Reading{Run: Run{x, y, length}}

	next, err := algos.RunAddressor(x, y, length)
	if err != nil {
		reading.Warnings = append(reading.Warnings, err)
		return reading
	}
	if !algos.Fits(x, y, length, grid.W, grid.H) {
		reading.Warnings = append(reading.Warnings, &BoundsError{Run: reading.Run, W: grid.W, H: grid.H})
	}

	// Cells past the right edge are all unreadable, so a long run only needs room for the row.
	capacity := util.Min(length, util.Max(grid.W, 0)+1)
	reading.Samples = make([]Sample, 0, capacity)
	text := make([]byte, 0, capacity)
	for {
		cx, cy, err := next()
		if err != nil {
			break
		}
		s := Sample{X: cx, Y: cy}
		s.Value, s.Readable = readChannel(grid, cx, cy)
		if !s.Readable {
			reading.Warnings = append(reading.Warnings, &UnreadablePixelError{cx, cy})
		}
		reading.Samples = append(reading.Samples, s)
		text = append(text, s.Char())
	}
	reading.Text = string(text)

	return reading
}

// Encode writes values into the red channel of the run starting at (x, y), leaving every other channel untouched.
// The grid is modified in place; callers that need the original should Clone it first.
//
// If the run does not fit inside the grid it is moved to the origin (0, 0) and a *RelocatedError is returned among the
// warnings, since the relocated run may overwrite other data. Cells that still fall outside the grid are skipped.
// The run that was actually written is returned.
func Encode(grid *Grid, x, y int, values []byte) (Run, []error) {
	var warnings []error

	run := Run{x, y, len(values)}
	if !algos.Fits(x, y, len(values), grid.W, grid.H) {
		relocated := Run{0, 0, len(values)}
		warnings = append(warnings, &RelocatedError{Requested: run, Actual: relocated, W: grid.W, H: grid.H})
		run = relocated
	}

	next, err := algos.RunAddressor(run.X, run.Y, run.Length)
	if err != nil {
		return run, append(warnings, err)
	}
	for i := 0; ; i++ {
		cx, cy, err := next()
		if err != nil {
			break
		}
		if !writeChannel(grid, cx, cy, values[i]) {
			warnings = append(warnings, &UnreadablePixelError{cx, cy})
		}
	}

	return run, warnings
}

// Helper functions

// msbIndex is the bit index of the most-significant byte of a channel, which is the byte the codec addresses.
func msbIndex(grid *Grid) uint8 {
	bits := int(grid.Format.BitsPerChannel)
	return uint8(util.Max(bits-int(bitsPerByte), 0))
}

func readChannel(grid *Grid, x, y int) (uint8, bool) {
	p, ok := grid.At(x, y)
	if !ok || len(p) <= ChannelRed {
		return 0, false
	}
	return uint8(binmani.ReadFrom(p[ChannelRed], msbIndex(grid), bitsPerByte)), true
}

func writeChannel(grid *Grid, x, y int, v byte) bool {
	p, ok := grid.At(x, y)
	if !ok || len(p) <= ChannelRed {
		return false
	}
	p[ChannelRed] = binmani.WriteTo(p[ChannelRed], msbIndex(grid), bitsPerByte, uint16(v))
	return true
}
