package depths

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/zedseven/depths/internal/util"
)

// MetadataTagger attaches a textual comment to an image as retrievable metadata.
type MetadataTagger interface {
	Tag(ctx context.Context, imagePath, comment string) error
	Comment(ctx context.Context, imagePath string) (string, error)
}

// PayloadEmbedder hides a file inside a carrier image behind a password, and recovers it again.
type PayloadEmbedder interface {
	Embed(ctx context.Context, coverPath, payloadPath, password, outPath string) error
	Extract(ctx context.Context, stegoPath, password, outPath string) error
}

// ToolError is returned when an external tool exits unsuccessfully. Output holds what the tool printed.
type ToolError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	if len(e.Output) > 0 {
		return fmt.Sprintf("%v failed: %v: %v", e.Tool, e.Err.Error(), e.Output)
	}
	return fmt.Sprintf("%v failed: %v", e.Tool, e.Err.Error())
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ExifTool tags images through the exiftool binary.
type ExifTool struct {
	// Path is the binary to run. Defaults to "exiftool".
	Path string
}

// Tag sets the Comment tag of the image, replacing the file in place.
func (t ExifTool) Tag(ctx context.Context, imagePath, comment string) error {
	_, err := runTool(ctx, orDefault(t.Path, "exiftool"), "-overwrite_original", "-Comment="+comment, imagePath)
	return err
}

// Comment returns the Comment tag of the image, or "" if it has none.
func (t ExifTool) Comment(ctx context.Context, imagePath string) (string, error) {
	out, err := runTool(ctx, orDefault(t.Path, "exiftool"), "-s3", "-Comment", imagePath)
	return strings.TrimSpace(out), err
}

// Steghide embeds and extracts payloads through the steghide binary.
// steghide only accepts JPEG, BMP, WAV and AU carriers.
type Steghide struct {
	// Path is the binary to run. Defaults to "steghide".
	Path string
}

// Embed hides payloadPath in coverPath and writes the result to outPath, overwriting it.
func (s Steghide) Embed(ctx context.Context, coverPath, payloadPath, password, outPath string) error {
	_, err := runTool(ctx, orDefault(s.Path, "steghide"),
		"embed", "-cf", coverPath, "-ef", payloadPath, "-sf", outPath, "-p", password, "-f")
	return err
}

// Extract recovers the payload hidden behind password in stegoPath and writes it to outPath.
func (s Steghide) Extract(ctx context.Context, stegoPath, password, outPath string) error {
	_, err := runTool(ctx, orDefault(s.Path, "steghide"),
		"extract", "-sf", stegoPath, "-p", password, "-xf", outPath, "-f")
	return err
}

// HexHint formats text as space-separated hex bytes, e.g. "RED CHANNEL" -> "52 45 44 20 43 48 41 4E 4E 45 4C".
func HexHint(text string) string {
	return util.HexWords(text)
}

// Helper functions

func runTool(ctx context.Context, tool string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stderr.String())
		if len(output) <= 0 {
			output = strings.TrimSpace(stdout.String())
		}
		return stdout.String(), &ToolError{Tool: tool, Args: args, Output: output, Err: err}
	}
	return stdout.String(), nil
}

func orDefault(s, def string) string {
	if len(s) > 0 {
		return s
	}
	return def
}
