package depths

import (
	"fmt"
	"image/color"
	"math"
)

const (
	bitsPerByte uint8 = 8
	VersionMax  uint8 = 1
	VersionMid  uint8 = 0
	VersionMin  uint8 = 0
)

// ChannelRed is the only channel the codec reads or writes.
const ChannelRed = 0

// Shared types

// Pixel holds the channel values of a single pixel, in the order of the image's colour model.
type Pixel []uint16

type fmtInfo struct {
	Model          color.Model
	ChannelsPerPix uint8
	BitsPerChannel uint8
}

func (info *fmtInfo) bytesPerChannel() uint8 {
	return uint8(math.Ceil(float64(info.BitsPerChannel) / float64(bitsPerByte)))
}

func (info *fmtInfo) String() string {
	return fmt.Sprintf("{%v %d %d}", colourModelToStr(info.Model), info.ChannelsPerPix, info.BitsPerChannel)
}

// Grid is a decoded image: W*H pixels stored row-major.
// The codec reads and writes cells of a Grid but never resizes it.
type Grid struct {
	W, H   int
	Format fmtInfo
	Pixels []Pixel
}

// NewGrid returns a zeroed 8-bit NRGBA grid with fully opaque pixels.
func NewGrid(w, h int) *Grid {
	g := &Grid{W: w, H: h, Format: fmtInfo{color.NRGBAModel, 4, 8}, Pixels: make([]Pixel, w*h)}
	for i := range g.Pixels {
		g.Pixels[i] = Pixel{0, 0, 0, 0xff}
	}
	return g
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, Format: g.Format, Pixels: make([]Pixel, len(g.Pixels))}
	for i, p := range g.Pixels {
		c.Pixels[i] = append(Pixel(nil), p...)
	}
	return c
}

// At returns the pixel at (x, y), or false if the cell is outside the grid or missing from a malformed one.
func (g *Grid) At(x, y int) (Pixel, bool) {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return nil, false
	}
	i := y*g.W + x
	if i >= len(g.Pixels) {
		return nil, false
	}
	return g.Pixels[i], true
}

// Run is a horizontal sequence of Length cells starting at (X, Y).
type Run struct {
	X, Y, Length int
}

// End returns the x coordinate of the last cell of the run.
func (r Run) End() int {
	return r.X + r.Length - 1
}

// Error types

type unknownColourModelError struct{}

func (e unknownColourModelError) Error() string {
	return "The colour model of the provided Image is unknown."
}

// InvalidFormatError is returned when a configuration or input is malformed.
type InvalidFormatError struct {
	ErrorDesc string
}

func (e *InvalidFormatError) Error() string {
	if len(e.ErrorDesc) > 0 {
		return e.ErrorDesc
	}
	return "The provided data is of an invalid format."
}

// BoundsError reports a run that does not fit inside the image.
type BoundsError struct {
	Run  Run
	W, H int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("Coordinates may be out of bounds: the image is %dx%d, the run covers (%d,%d) to (%d,%d).",
		e.W, e.H, e.Run.X, e.Run.Y, e.Run.End(), e.Run.Y)
}

// UnreadablePixelError reports a single cell of a run that could not be accessed.
type UnreadablePixelError struct {
	X, Y int
}

func (e *UnreadablePixelError) Error() string {
	return fmt.Sprintf("Could not read pixel at (%d, %d)", e.X, e.Y)
}

// RelocatedError reports that an encode was moved to the fallback origin because the requested run did not fit.
type RelocatedError struct {
	Requested, Actual Run
	W, H              int
}

func (e *RelocatedError) Error() string {
	return fmt.Sprintf("The image is too small (%dx%d) for the run at (%d,%d); using (%d,%d) instead.",
		e.W, e.H, e.Requested.X, e.Requested.Y, e.Actual.X, e.Actual.Y)
}

// LossyFormatError is returned when asked to write the grid in a format that would not preserve channel bytes exactly.
type LossyFormatError struct {
	Format string
}

func (e *LossyFormatError) Error() string {
	return fmt.Sprintf("The %v format is lossy or palette-based and would corrupt the encoded channel; use png, bmp or tiff.", e.Format)
}

// Library methods

// Version returns the library version string.
func Version() string {
	return fmt.Sprintf("%02d.%02d.%02d", VersionMax, VersionMid, VersionMin)
}

// Shared methods

func posToXY(pos int, w int) (x, y int) {
	x = pos % w
	y = pos / w
	return
}
