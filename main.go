// Command sealmask turns a grayscale image into an ellipse-masked displacement
// map. Pixels inside the ellipse inscribed in the --topleft/--downright
// rectangle are kept, everything else becomes white, and the result is cropped
// to the ellipse plus a small border.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sealmask/config"
	"github.com/nvr-ai/go-sealmask/images"
	"github.com/nvr-ai/go-sealmask/mask"
	"github.com/nvr-ai/go-sealmask/mask/opencv"
	"github.com/nvr-ai/go-sealmask/profiler"
	"github.com/nvr-ai/go-sealmask/util"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Stages timed around the engine.
const (
	stageLoad   = "load"
	stageDecode = "decode"
	stageEncode = "encode"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the tool with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "sealmask: ", 0)

	cfg, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Cause(err) == flag.ErrHelp {
			fs.Usage()
			return exitOK
		}
		logger.Print(err)
		fs.Usage()
		return exitUsage
	}

	debugf := func(format string, v ...interface{}) {
		if cfg.Verbose {
			fmt.Fprintf(stderr, "[DEBUG] "+format+"\n", v...)
		}
	}

	var timer *profiler.StageTimer
	if cfg.Profile {
		timer = profiler.NewStageTimer()
	}

	out, err := process(cfg, timer, debugf)
	if err != nil {
		logger.Print(err)
		return exitError
	}

	fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", cfg.Output, out.Width, out.Height)
	if cfg.Profile {
		timer.Report(stderr)
	}
	return exitOK
}

// parseFlags builds the flag set and returns a validated configuration.
func parseFlags(args []string, stderr io.Writer) (config.Config, *flag.FlagSet, error) {
	cfg := config.DefaultConfig()
	fs := flag.NewFlagSet("sealmask", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var topLeft, downRight config.PointFlag
	for _, name := range []string{"input", "i"} {
		fs.StringVar(&cfg.Input, name, "", "Path of the grayscale source image")
	}
	for _, name := range []string{"output", "o"} {
		fs.StringVar(&cfg.Output, name, "", "Path of the displacement map to write")
	}
	for _, name := range []string{"topleft", "tl"} {
		fs.Var(&topLeft, name, "Top left corner as x@y (default margin@margin)")
	}
	for _, name := range []string{"downright", "dr"} {
		fs.Var(&downRight, name, "Bottom right corner as x@y (default width-1-margin@height-1-margin)")
	}
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Engine and codec: go or opencv")
	fs.StringVar(&cfg.Preview, "preview", "", "Optional path for a scaled down preview")
	fs.IntVar(&cfg.PreviewSize, "preview-size", cfg.PreviewSize, "Longest side of the preview in pixels")
	fs.IntVar(&cfg.Margin, "margin", cfg.Margin, "Border in pixels kept from the image edge and around the crop")
	fs.BoolVar(&cfg.Profile, "profile", false, "Print stage timings to stderr")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug output")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: sealmask --input PATH --output PATH [--topleft X@Y] [--downright X@Y] [options]\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nSupported extensions: %s\n", strings.Join(images.SupportedExtensions(), " "))
	}

	// run reports parse errors itself, so discard what the flag package prints.
	fs.SetOutput(io.Discard)
	err := fs.Parse(args)
	fs.SetOutput(stderr)
	if err != nil {
		return cfg, fs, err
	}
	if fs.NArg() > 0 {
		return cfg, fs, errors.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg.TopLeft = topLeft.Point
	cfg.DownRight = downRight.Point
	if err := cfg.Validate(); err != nil {
		return cfg, fs, err
	}
	return cfg, fs, nil
}

// process loads, transforms and writes one image.
func process(cfg config.Config, timer *profiler.StageTimer, debugf func(string, ...interface{})) (*images.Image, error) {
	stop := timer.StartOperation(stageLoad)
	file, err := util.LoadImageFile(cfg.Input)
	stop()
	if err != nil {
		return nil, err
	}
	debugf("loaded %s: %d bytes, format %s", file.Path, len(file.Data), file.Format)

	var (
		engine mask.Engine
		decode func([]byte) (*images.Image, error)
		save   func(string, *images.Image) error
	)
	opts := mask.Options{Margin: cfg.Margin, Timer: timer}
	switch cfg.Backend {
	case config.BackendOpenCV:
		engine = opencv.NewEngine(opts)
		decode = opencv.Decode
		save = opencv.Write
	default:
		engine = mask.NewEngine(opts)
		decode = func(data []byte) (*images.Image, error) {
			return images.Decode(bytes.NewReader(data))
		}
		save = images.Save
	}

	stop = timer.StartOperation(stageDecode)
	img, err := decode(file.Data)
	stop()
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", cfg.Input)
	}
	img.Format = file.Format
	debugf("decoded %dx%d image with %s backend", img.Width, img.Height, engine.Name())

	rect, err := cfg.Resolve(img.Width, img.Height)
	if err != nil {
		return nil, err
	}
	debugf("rectangle %s, center %s", rect, rect.Center())

	out, err := engine.Transform(img, rect)
	if err != nil {
		return nil, err
	}
	debugf("output %dx%d, checksum %s", out.Width, out.Height, images.Checksum(out))

	// The preview goes first so a failure leaves neither file behind.
	if cfg.Preview != "" {
		preview := images.Thumbnail(out, cfg.PreviewSize)
		if err := images.Save(cfg.Preview, preview); err != nil {
			return nil, errors.Wrap(err, "preview")
		}
		debugf("preview %s: %dx%d", cfg.Preview, preview.Width, preview.Height)
	}

	stop = timer.StartOperation(stageEncode)
	err = save(cfg.Output, out)
	stop()
	if err != nil {
		if cfg.Preview != "" {
			os.Remove(cfg.Preview)
		}
		return nil, err
	}

	return out, nil
}
