package depths

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Layer is one password-protected payload embedded in the challenge image.
type Layer struct {
	// File is the name of the payload file, written into the work directory.
	File string `yaml:"file"`
	// Text is the content of the payload file.
	Text string `yaml:"text"`
	// Password protects the payload inside the image.
	Password string `yaml:"password"`
}

// BuildConfig stores the configuration options for the Build operation.
type BuildConfig struct {
	InputPath     string  `yaml:"input"`         // The path on disk to the source image.
	WorkDir       string  `yaml:"workDir"`       // The directory the challenge image and payload files are written to.
	ChallengeName string  `yaml:"challenge"`     // The file name of the challenge image; must be a lossless format.
	Message       string  `yaml:"message"`       // The ASCII message written into the red channel.
	X             int     `yaml:"x"`             // The x coordinate of the first pixel of the message.
	Y             int     `yaml:"y"`             // The row the message is written on.
	HintText      string  `yaml:"hintText"`      // The text planted, hex-encoded, in the image comment.
	CommentPrefix string  `yaml:"commentPrefix"` // The text before the hex hint in the comment.
	Layers        []Layer `yaml:"layers"`        // The payloads embedded in order, each independent of the others.
	ExifToolPath  string  `yaml:"exiftool"`      // The exiftool binary.
	SteghidePath  string  `yaml:"steghide"`      // The steghide binary.

	OutputLevel OutputLevel `yaml:"-"`
}

// DefaultBuildConfig returns the configuration of the original "Hidden Depths" challenge.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		WorkDir:       ".",
		ChallengeName: "challenge.png",
		Message:       "NEPTUNE",
		X:             42,
		Y:             42,
		HintText:      "RED CHANNEL",
		CommentPrefix: "Coordinates of interest: ",
		Layers: []Layer{
			{
				File:     "clue1.txt",
				Text:     "The surface reveals nothing. Look deeper at layer 42, 42, 42 - RGB holds the key. But first, check what the camera saw.",
				Password: "dive",
			},
			{
				File:     "flag.txt",
				Text:     "Congratulations! You've reached the deepest point. Your flag is: FLAG{D33P_S34_S3CR3TS_R3V34L3D}",
				Password: "NEPTUNE",
			},
		},
		OutputLevel: OutputSteps,
	}
}

// LoadBuildConfig reads a YAML build configuration on top of DefaultBuildConfig.
// A missing file is not an error: the defaults are returned.
func LoadBuildConfig(configPath string, outputLevel OutputLevel) (BuildConfig, error) {
	config := DefaultBuildConfig()
	config.OutputLevel = outputLevel

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			printlnLvl(outputLevel, OutputInfo, fmt.Sprintf("Configuration file '%v' not found. Using the default challenge.", configPath))
			return config, nil
		}
		return config, fmt.Errorf("failed to read configuration file '%s': %w", configPath, err)
	}

	if err = yaml.UnmarshalStrict(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse configuration file '%s': %w", configPath, err)
	}
	return config, config.Validate()
}

// Validate checks the configuration for values Build cannot work with.
func (c *BuildConfig) Validate() error {
	if len(c.ChallengeName) <= 0 {
		return &InvalidFormatError{"ChallengeName is empty."}
	}
	if _, err := formatForPath(c.ChallengeName); err != nil {
		return err
	}
	if len(c.Message) <= 0 {
		return &InvalidFormatError{"Message is empty."}
	}
	if c.X < 0 || c.Y < 0 {
		return &InvalidFormatError{fmt.Sprintf("Coordinates must be non-negative: Provided (%d, %d).", c.X, c.Y)}
	}
	for i, l := range c.Layers {
		if len(l.File) <= 0 || len(l.Password) <= 0 {
			return &InvalidFormatError{fmt.Sprintf("Layer %d needs both a file and a password.", i+1)}
		}
	}
	return nil
}
