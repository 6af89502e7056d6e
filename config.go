package main

import (
	"encoding/json"
	"os"

	"github.com/kr/pretty"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mutschler/fbv/decode"
)

const (
	configName = "fbv"
	configType = "json"

	defaultDevice = "/dev/fb0"
)

type config struct {
	// Device is the framebuffer device to draw on.
	Device string `json:"device" mapstructure:"device"`
	// Verbose increases the logging.
	Verbose bool `json:"verbose" mapstructure:"verbose"`
	// Filter sets an optional filter on the image. Options are:
	//   - "none"
	//   - "greyscale"
	//   - "invert"
	//   - "sepia"
	//   - "cross"     cross processing
	Filter string `json:"filter" mapstructure:"filter"`
	// AutoOrient applies the EXIF orientation before any rotation.
	AutoOrient bool `json:"auto_orient" mapstructure:"auto_orient"`
	// MaxPixels rejects images with more pixels.
	MaxPixels int `json:"max_pixels" mapstructure:"max_pixels"`
	// Snapshot renders into an image file instead of the device.
	Snapshot bool `json:"snapshot" mapstructure:"snapshot"`
	// SnapshotWidth, SnapshotHeight and SnapshotDepth describe the emulated
	// screen.
	SnapshotWidth  int `json:"snapshot_width" mapstructure:"snapshot_width"`
	SnapshotHeight int `json:"snapshot_height" mapstructure:"snapshot_height"`
	SnapshotDepth  int `json:"snapshot_depth" mapstructure:"snapshot_depth"`
	// Background is an image that fills the snapshot before rendering.
	Background string `json:"background" mapstructure:"background"`
	// BgColor fills the snapshot when no background image is set (RGB).
	BgColor string `json:"bg_color" mapstructure:"bg_color"`
	// Filename is the template for the snapshot file name.
	Filename string `json:"filename" mapstructure:"filename"`
	// Overwrite will enable the ability to overwrite existing snapshots.
	Overwrite bool `json:"overwrite" mapstructure:"overwrite"`
	// Upload posts the snapshot to a URL.
	Upload bool `json:"upload" mapstructure:"upload"`
	// UploadUrl sets the upload URL.
	UploadUrl string `json:"upload_url" mapstructure:"upload_url"`
}

// configInit sets default variables and reads configuration file.
func configInit(configFile string) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("fbv")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType(configType)
		viper.AddConfigPath("./")
		viper.AddConfigPath("/etc/fbv/")
		viper.AddConfigPath("$HOME/.fbv")
	}

	// Set fbv defaults
	viper.SetDefault("device", defaultDevice)
	viper.SetDefault("verbose", false)
	viper.SetDefault("filter", "none")
	viper.SetDefault("auto_orient", false)
	viper.SetDefault("max_pixels", decode.DefaultMaxPixels)
	viper.SetDefault("snapshot", false)
	viper.SetDefault("snapshot_width", 1280)
	viper.SetDefault("snapshot_height", 720)
	viper.SetDefault("snapshot_depth", 32)
	viper.SetDefault("background", "")
	viper.SetDefault("bg_color", "0,0,0")
	viper.SetDefault("filename", "{{.Path}}{{.Name}}-fbv.png")
	viper.SetDefault("overwrite", false)
	viper.SetDefault("upload", false)
	viper.SetDefault("upload_url", "http://example.com/upload")

	err := viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Info("configuration file not found, using defaults")
		return
	}
	if err != nil {
		log.Warnf("could not read config file: %v", err)
		return
	}
	log.Infof("loaded config file %s", viper.ConfigFileUsed())
}

func currentConfig() (config, error) {
	var c config
	err := mapstructure.WeakDecode(viper.AllSettings(), &c)
	return c, err
}

func showConfig() error {
	c, err := currentConfig()
	if err != nil {
		return err
	}
	log.Infof("current configuration:\n%# v", pretty.Formatter(c))
	return nil
}

func saveConfig(configurationPath string) error {
	currentConfig, err := currentConfig()
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(&currentConfig, "", "    ")
	if err != nil {
		return err
	}

	f, err := os.Create(configurationPath)
	if err != nil {
		return ErrCannotSaveConfigFile
	}

	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return ErrCannotSaveConfigFile
	}
	log.Infof("config file saved to: %s", configurationPath)

	return nil
}
