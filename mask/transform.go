package mask

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sealmask/images"
	"github.com/nvr-ai/go-sealmask/profiler"
)

// DefaultMargin is the border, in pixels, kept around the ellipse.
const DefaultMargin = 2

// Stage names recorded by engines.
const (
	StageMask      = "mask"
	StageComposite = "composite"
	StageCrop      = "crop"
)

// Engine turns an image and a rectangle into a cropped, ellipse-masked map.
// Implementations hold no state between calls.
type Engine interface {
	// Name identifies the engine in logs.
	Name() string
	// Transform runs mask generation, compositing and cropping.
	Transform(img *images.Image, rect images.Rectangle) (*images.Image, error)
}

// Options configures an engine.
type Options struct {
	// Margin is the border kept around the ellipse's bounding box.
	Margin int
	// Timer receives per-stage durations. Nil disables timing.
	Timer *profiler.StageTimer
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{Margin: DefaultMargin}
}

type engine struct {
	opts Options
}

// NewEngine returns the pure Go engine.
func NewEngine(opts Options) Engine {
	return &engine{opts: opts}
}

// Name returns "go".
func (e *engine) Name() string {
	return "go"
}

// Transform runs the pipeline with the engine's options.
func (e *engine) Transform(img *images.Image, rect images.Rectangle) (*images.Image, error) {
	return transform(img, rect, e.opts)
}

// Transform masks img with the ellipse inscribed in rect, whitens everything
// outside it and crops the result to rect plus DefaultMargin.
//
// Arguments:
// - img: The grayscale source. It is not modified.
// - rect: The rectangle the ellipse is inscribed in.
//
// Returns:
// - The cropped, masked image.
// - error if the rectangle is degenerate or outside the image.
//
// @example
// out, err := Transform(img, images.Rect(images.Pt(2, 2), images.Pt(17, 17)))
func Transform(img *images.Image, rect images.Rectangle) (*images.Image, error) {
	return transform(img, rect, DefaultOptions())
}

func transform(img *images.Image, rect images.Rectangle, opts Options) (*images.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, errors.Wrap(err, "transform")
	}

	stop := opts.Timer.StartOperation(StageMask)
	m, box, err := GenerateEllipseMask(img.Width, img.Height, rect)
	stop()
	if err != nil {
		return nil, err
	}
	opts.Timer.RecordMetric("mask_coverage", m.Coverage())

	stop = opts.Timer.StartOperation(StageComposite)
	composited, err := Composite(img, m)
	stop()
	if err != nil {
		return nil, err
	}

	stop = opts.Timer.StartOperation(StageCrop)
	out, err := Crop(composited, box, opts.Margin)
	stop()
	if err != nil {
		return nil, err
	}
	opts.Timer.RecordMetric("output_pixels", float64(out.Width*out.Height))

	return out, nil
}
