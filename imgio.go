package depths

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zedseven/binmani"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Primary methods

// LoadImage opens and decodes the image at imgPath into a Grid.
func LoadImage(imgPath string, outputLevel OutputLevel) (grid *Grid, err error) {
	imgFile, err := os.Open(imgPath)
	if err != nil {
		printlnLvl(outputLevel, OutputSteps, "Unable to open the image!", err.Error())
		return nil, err
	}

	defer func() {
		if cerr := imgFile.Close(); cerr != nil {
			printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("Error closing the file '%v': %v", imgPath, cerr.Error()))
		}
	}()

	grid, format, err := ReadGrid(imgFile)
	if err != nil {
		printlnLvl(outputLevel, OutputSteps, "The image couldn't be decoded:", err.Error())
		return nil, err
	}

	printlnLvl(outputLevel, OutputInfo,
		fmt.Sprintf("Image info:\n\tFormat: %v\n\tDimensions: %dx%dpx\n\tColour model: %v\n\tChannels per pixel: %d\n\tBits per channel: %d",
			format, grid.W, grid.H, colourModelToStr(grid.Format.Model), grid.Format.ChannelsPerPix, grid.Format.BitsPerChannel))

	return grid, nil
}

// WriteImage encodes grid to outPath. The format is chosen from the file extension and must be lossless.
func WriteImage(grid *Grid, outPath string, outputLevel OutputLevel) (err error) {
	format, err := formatForPath(outPath)
	if err != nil {
		printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("Refusing to write '%v': %v", outPath, err.Error()))
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("There was an error creating the file '%v'.", outPath))
		return err
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			printlnLvl(outputLevel, OutputSteps, fmt.Sprintf("Error closing the file '%v': %v", outPath, cerr.Error()))
			if err == nil {
				err = cerr
			}
		}
	}()

	if err = WriteGrid(f, grid, format); err != nil {
		printlnLvl(outputLevel, OutputSteps, "There was an error encoding the image to the new file.")
		return err
	}

	return nil
}

// ReadGrid decodes any registered image format from r, returning the grid and the format name.
// Images in colour models without a native channel layout (YCbCr, paletted) are converted to NRGBA.
func ReadGrid(r io.Reader) (*Grid, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, format, err
	}
	grid, err := GridFromImage(img)
	return grid, format, err
}

// WriteGrid encodes grid to w as "png", "bmp" or "tiff".
func WriteGrid(w io.Writer, grid *Grid, format string) error {
	img, err := grid.Image()
	if err != nil {
		return err
	}

	switch format {
	case "png":
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		return encoder.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "jpeg", "gif", "webp":
		return &LossyFormatError{format}
	default:
		return &InvalidFormatError{fmt.Sprintf("Unsupported output format '%v'.", format)}
	}
}

// GridFromImage copies the channel values of img into a new Grid.
func GridFromImage(img image.Image) (*Grid, error) {
	b := img.Bounds()
	grid := &Grid{W: b.Dx(), H: b.Dy()}

	// Each colour model has to be handled individually
	switch simg := img.(type) {
	case *image.Alpha16:
		grid.Format = fmtInfo{color.Alpha16Model, 1, 16}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	case *image.Alpha:
		grid.Format = fmtInfo{color.AlphaModel, 1, 8}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	case *image.CMYK:
		grid.Format = fmtInfo{color.CMYKModel, 4, 8}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	case *image.Gray16:
		grid.Format = fmtInfo{color.Gray16Model, 1, 16}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	case *image.Gray:
		grid.Format = fmtInfo{color.GrayModel, 1, 8}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	case *image.NRGBA64:
		grid.Format = fmtInfo{color.NRGBA64Model, 4, 16}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	case *image.NRGBA:
		grid.Format = fmtInfo{color.NRGBAModel, 4, 8}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	// Premultiplied models only keep their channels as-is when fully opaque; otherwise writing them re-derives
	// the colour channels from alpha and the red value would not survive.
	case *image.RGBA64:
		if !simg.Opaque() {
			dst := image.NewNRGBA64(image.Rect(0, 0, grid.W, grid.H))
			draw.Draw(dst, dst.Bounds(), simg, b.Min, draw.Src)
			return GridFromImage(dst)
		}
		grid.Format = fmtInfo{color.RGBA64Model, 4, 16}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	case *image.RGBA:
		if !simg.Opaque() {
			dst := image.NewNRGBA(image.Rect(0, 0, grid.W, grid.H))
			draw.Draw(dst, dst.Bounds(), simg, b.Min, draw.Src)
			return GridFromImage(dst)
		}
		grid.Format = fmtInfo{color.RGBAModel, 4, 8}
		grid.Pixels = pixToPixels(simg.Pix, simg.Stride, grid.W, grid.H, grid.Format)
	default:
		dst := image.NewNRGBA(image.Rect(0, 0, grid.W, grid.H))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return GridFromImage(dst)
	}

	return grid, nil
}

// Image returns a new image.Image of the grid's colour model holding its channel values.
func (g *Grid) Image() (image.Image, error) {
	r := image.Rect(0, 0, g.W, g.H)
	if len(g.Pixels) < g.W*g.H {
		return nil, &InvalidFormatError{fmt.Sprintf("The grid holds %d pixels but is %dx%d.", len(g.Pixels), g.W, g.H)}
	}

	switch g.Format.Model {
	case color.Alpha16Model:
		simg := image.NewAlpha16(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	case color.AlphaModel:
		simg := image.NewAlpha(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	case color.CMYKModel:
		simg := image.NewCMYK(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	case color.Gray16Model:
		simg := image.NewGray16(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	case color.GrayModel:
		simg := image.NewGray(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	case color.NRGBA64Model:
		simg := image.NewNRGBA64(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	case color.NRGBAModel:
		simg := image.NewNRGBA(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	case color.RGBA64Model:
		simg := image.NewRGBA64(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	case color.RGBAModel:
		simg := image.NewRGBA(r)
		pixelsToPix(simg.Pix, g.Pixels, g.Format)
		return simg, nil
	default:
		return nil, unknownColourModelError{}
	}
}

// ToRGB returns an 8-bit opaque NRGBA copy of the grid. Any alpha is discarded rather than composited.
func (g *Grid) ToRGB() (*Grid, error) {
	var rgb *Grid
	if g.Format.Model == color.NRGBAModel && len(g.Pixels) >= g.W*g.H {
		// Straight copy, so fully transparent pixels keep their colour.
		rgb = g.Clone()
	} else {
		img, err := g.Image()
		if err != nil {
			return nil, err
		}
		dst := image.NewNRGBA(image.Rect(0, 0, g.W, g.H))
		draw.Draw(dst, dst.Bounds(), img, image.Point{}, draw.Src)

		if rgb, err = GridFromImage(dst); err != nil {
			return nil, err
		}
	}
	for i := range rgb.Pixels {
		if len(rgb.Pixels[i]) == 4 {
			rgb.Pixels[i][3] = 0xff
		}
	}
	return rgb, nil
}

// Helper functions

func formatForPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	case ".jpg", ".jpeg":
		return "", &LossyFormatError{"jpeg"}
	case ".gif", ".webp":
		return "", &LossyFormatError{ext[1:]}
	default:
		return "", &InvalidFormatError{fmt.Sprintf("Unsupported output extension '%v'.", ext)}
	}
}

func pixToPixels(pix []uint8, stride, w, h int, info fmtInfo) []Pixel {
	bytes := int(info.bytesPerChannel())
	channels := int(info.ChannelsPerPix)
	pixels := make([]Pixel, w*h)
	for i := range pixels {
		x, y := posToXY(i, w)
		offset := y*stride + x*channels*bytes
		pixels[i] = make(Pixel, channels)
		for j := 0; j < channels; j++ {
			// Image raw Pix arrays store multi-byte channel values in big-endian format
			for k := 0; k < bytes; k++ {
				pixels[i][j] <<= bitsPerByte
				pixels[i][j] += uint16(pix[offset+j*bytes+k])
			}
		}
	}
	return pixels
}

func pixelsToPix(pix []uint8, pixels []Pixel, info fmtInfo) {
	bytes := info.bytesPerChannel()
	channels := int(info.ChannelsPerPix)
	for i := range pixels {
		for j := 0; j < channels && j < len(pixels[i]); j++ {
			for k := uint8(0); k < bytes; k++ {
				pix[(i*channels+j)*int(bytes)+int(k)] =
					uint8(binmani.ReadFrom(pixels[i][j], (bytes-1-k)*bitsPerByte, bitsPerByte))
			}
		}
	}
}

func colourModelToStr(model color.Model) string {
	switch model {
	case color.Alpha16Model:
		return "Alpha16"
	case color.AlphaModel:
		return "Alpha"
	case color.CMYKModel:
		return "CMYK"
	case color.Gray16Model:
		return "Gray16"
	case color.GrayModel:
		return "Gray"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.RGBAModel:
		return "RGBA"
	case color.NYCbCrAModel:
		return "NYCbCrA"
	case color.YCbCrModel:
		return "YCbCr"
	default:
		return "<Unknown>"
	}
}
