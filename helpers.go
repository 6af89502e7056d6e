package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// name used for the snapshot of an image read from stdin
const stdinName = "stdin"

// check if given fname exists already
func fileExists(fname string) bool {
	if _, err := os.Stat(fname); err == nil {
		return true
	}
	return false
}

// opens the image source, "-" is standard input
func openSource(fn string) (io.ReadCloser, error) {
	if fn == "-" {
		log.Info("using stdin")
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("can't open file %s: %w", fn, err)
	}
	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("file %s: %w", fn, ErrNotRegularFile)
	}
	log.Infof("opens %s", fn)
	return f, nil
}

//takes a string "0,0,0" and returns the RGBA color
func getImageColor(s string, fallback []int) color.RGBA {
	fb := color.RGBA{uint8(fallback[0]), uint8(fallback[1]), uint8(fallback[2]), 255}
	colors := strings.Split(s, ",")
	if len(colors) != 3 {
		log.Warnf("error converting %s to a valid color, using fallback color: %v", s, fallback)
		return fb
	}
	var rgb [3]uint8
	for i, c := range colors {
		v, err := strconv.ParseUint(strings.TrimSpace(c), 10, 8)
		if err != nil {
			log.Warnf("error converting %s to a valid color (%v), using fallback color: %v", s, err, fallback)
			return fb
		}
		rgb[i] = uint8(v)
	}
	log.Debugf("color %s converted to %v", s, rgb)
	return color.RGBA{rgb[0], rgb[1], rgb[2], 255}
}

// used to construct a save path based on given file info
type FileInfo struct {
	Name  string
	Ext   string
	Path  string
	Count string
}

// constructs the save path based on filename and counter
func constructSavePath(filename string, c int) string {
	out := viper.GetString("filename")

	fx := FileInfo{}
	fx.Path, fx.Name = filepath.Split(filename)
	fx.Ext = filepath.Ext(filename)
	fx.Name = strings.TrimSuffix(fx.Name, fx.Ext)
	fx.Count = fmt.Sprintf("%02d", c)
	if c > 0 && !strings.Contains(out, "{{.Count}}") {
		ext := filepath.Ext(out)
		out = strings.TrimSuffix(out, ext) + "-{{.Count}}" + ext
	}

	t, err := template.New("filepath").Parse(out)
	if err != nil {
		log.Warnf("invalid filename template %q: %v", out, err)
		return fx.Path + fx.Name + "-fbv.png"
	}
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, &fx); err != nil || buf.Len() == 0 {
		return fx.Path + fx.Name + "-fbv.png"
	}
	return buf.String()
}

//gets a filename (string) and returns the path to save the snapshot to...
func getSavePath(filename string, c int) string {
	fname := constructSavePath(filename, c)

	counter := c
	for fileExists(fname) && !viper.GetBool("overwrite") {
		log.Debugf("image already existing at: %s and overwrite is disabled", fname)
		counter++
		fname = constructSavePath(filename, counter)
	}
	return fname
}

// maps a config key to its command line flag
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
