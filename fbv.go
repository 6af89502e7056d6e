package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mutschler/fbv/decode"
	"github.com/mutschler/fbv/display"
	"github.com/mutschler/fbv/render"
)

const usage = `usage: fbv [flags] <file|-> [<rot 0-3>] [<scale 0-1>] [<xpan>] [<ypan>] [<mix 0-255>]

  rot    0 no rotation, 1 90, 2 180, 3 270 degrees
  scale  0 best fit to the screen, 1 no scaling
  xpan   pixel offset from the centered position, clamped to the margin
  ypan   pixel offset from the centered position, clamped to the margin
  mix    0 clear the screen first, 1 opaque blit, 2-255 alpha blend

flags (before <file>):
`

// positional arguments of one invocation
type request struct {
	source string
	opts   render.Options
}

// surface is a display fbv can render onto and release afterwards.
type surface interface {
	render.Display
	Close() error
}

// parses <source> [<rot>] [<scale>] [<xpan>] [<ypan>] [<mix>], missing
// values default to 0
func parseArgs(args []string) (request, error) {
	if len(args) < 1 || len(args) > 6 {
		return request{}, ErrUsage
	}
	var v [5]int
	for i, a := range args[1:] {
		n, err := cast.ToIntE(a)
		if err != nil {
			return request{}, fmt.Errorf("argument %d %q: %w", i+2, a, ErrUsage)
		}
		v[i] = n
	}

	req := request{source: args[0]}
	var err error
	if req.opts.Rotation, err = render.ParseRotation(v[0]); err != nil {
		return request{}, err
	}
	if req.opts.Scale, err = render.ParseScaleMode(v[1]); err != nil {
		return request{}, err
	}
	req.opts.PanX, req.opts.PanY = v[2], v[3]
	if req.opts.Mix, err = render.ParseMixMode(v[4]); err != nil {
		return request{}, err
	}
	return req, nil
}

// opens the framebuffer device or, in snapshot mode, an emulated screen
func openSurface() (surface, *display.Snapshot, error) {
	if !viper.GetBool("snapshot") {
		fb, err := display.OpenFramebuffer(viper.GetString("device"))
		if err != nil {
			return nil, nil, err
		}
		return fb, nil, nil
	}

	snap, err := display.NewSnapshot(render.Geometry{
		Width:    viper.GetInt("snapshot_width"),
		Height:   viper.GetInt("snapshot_height"),
		BitDepth: viper.GetInt("snapshot_depth"),
	})
	if err != nil {
		return nil, nil, err
	}
	if bg := viper.GetString("background"); bg != "" {
		img, err := imaging.Open(bg)
		if err != nil {
			return nil, nil, fmt.Errorf("background %s: %w: %w", bg, render.ErrDecode, err)
		}
		snap.SetBackground(img)
	} else {
		c := getImageColor(viper.GetString("bg_color"), []int{0, 0, 0})
		snap.SetBackground(imaging.New(1, 1, c))
	}
	return snap, snap, nil
}

func run(args []string) error {
	req, err := parseArgs(args)
	if err != nil {
		return err
	}
	filter, err := getFilter(viper.GetString("filter"))
	if err != nil {
		return err
	}

	in, err := openSource(req.source)
	if err != nil {
		return err
	}
	defer in.Close()

	sess, err := decode.Open(in, decode.Options{
		AutoOrient: viper.GetBool("auto_orient"),
		Filter:     filter,
		MaxPixels:  viper.GetInt("max_pixels"),
	})
	if err != nil {
		log.Error("problems while setting up decoder")
		return err
	}
	defer sess.Close()

	disp, snap, err := openSurface()
	if err != nil {
		return err
	}
	defer disp.Close()

	plan, err := render.Render(sess, disp, req.opts)
	if err != nil {
		return err
	}

	if snap == nil {
		return nil
	}
	name := req.source
	if name == "-" {
		name = stdinName
	}
	fn := getSavePath(name, 0)
	if err := snap.Save(fn); err != nil {
		return err
	}
	log.Infof("saved to %s", fn)
	g, err := snap.Geometry()
	if err != nil {
		return err
	}
	return uploadSnapshot(fn, g, plan)
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	configFile := flag.StringP("config", "c", "", "path to a config file")
	flag.String("device", defaultDevice, "framebuffer device")
	flag.BoolP("verbose", "v", false, "enable debug logging")
	flag.String("filter", "none", "image filter: none, greyscale, invert, sepia or cross")
	flag.Bool("auto-orient", false, "apply the EXIF orientation of the image")
	flag.Int("max-pixels", decode.DefaultMaxPixels, "refuse images with more pixels")
	flag.BoolP("snapshot", "s", false, "render into an image file instead of the framebuffer")
	flag.Int("snapshot-width", 1280, "width of the snapshot screen")
	flag.Int("snapshot-height", 720, "height of the snapshot screen")
	flag.Int("snapshot-depth", 32, "bit depth of the snapshot screen (16 or 32)")
	flag.String("background", "", "image drawn on the snapshot screen before rendering")
	flag.String("bg-color", "0,0,0", "snapshot screen color without background image (R,G,B)")
	flag.StringP("filename", "o", "{{.Path}}{{.Name}}-fbv.png", "snapshot file name template")
	flag.Bool("overwrite", false, "overwrite existing snapshots")
	flag.Bool("upload", false, "upload the snapshot")
	flag.String("upload-url", "http://example.com/upload", "upload URL")
	flag.Bool("show-config", false, "log the current configuration")
	flag.String("save-config", "", "save the current configuration to a file")
	// flags end at the source so negative pans stay positional
	flag.CommandLine.SetInterspersed(false)
	flag.Parse()

	log.SetOutput(os.Stdout)
	configInit(*configFile)
	for _, key := range []string{
		"device", "verbose", "filter", "auto_orient", "max_pixels", "snapshot",
		"snapshot_width", "snapshot_height", "snapshot_depth", "background",
		"bg_color", "filename", "overwrite", "upload", "upload_url",
		"show_config", "save_config",
	} {
		viper.BindPFlag(key, flag.Lookup(flagName(key)))
	}

	if viper.GetBool("verbose") {
		log.SetLevel(log.DebugLevel)
	}

	if viper.GetBool("show_config") {
		if err := showConfig(); err != nil {
			log.Error(err)
		}
	}
	if fn := viper.GetString("save_config"); fn != "" {
		if err := saveConfig(fn); err != nil {
			log.Error(err)
			os.Exit(1)
		}
	}

	if err := run(flag.Args()); err != nil {
		log.Error(err)
		if errors.Is(err, ErrUsage) {
			flag.Usage()
		}
		os.Exit(1)
	}
}
