// Package config - command line configuration for the displacement map tool:
// corner parsing, defaults and clamping of the ellipse rectangle.
package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sealmask/images"
	"github.com/nvr-ai/go-sealmask/mask"
)

// DefaultMargin is the distance, in pixels, kept between the rectangle and
// the image edge. It is also the crop border.
const DefaultMargin = mask.DefaultMargin

// DefaultPreviewSize bounds the longer side of a preview thumbnail.
const DefaultPreviewSize = 256

// Backends.
const (
	BackendGo     = "go"
	BackendOpenCV = "opencv"
)

var (
	// ErrInvalidCoordinate is returned for corner strings that are not "x@y".
	ErrInvalidCoordinate = errors.New("coordinate must be of the form x@y")
	// ErrMissingInput is returned when no input path was given.
	ErrMissingInput = errors.New("input path is required")
	// ErrMissingOutput is returned when no output path was given.
	ErrMissingOutput = errors.New("output path is required")
	// ErrUnknownBackend is returned for a backend other than go or opencv.
	ErrUnknownBackend = errors.New("unknown backend")
)

// Config holds everything the command line tool needs for one run.
type Config struct {
	// Input is the path of the source image.
	Input string `json:"input" yaml:"input"`
	// Output is the path the displacement map is written to.
	Output string `json:"output" yaml:"output"`
	// TopLeft is the rectangle's top left corner. Nil selects the default.
	TopLeft *images.Point `json:"topleft,omitempty" yaml:"topleft,omitempty"`
	// DownRight is the rectangle's bottom right corner. Nil selects the
	// default.
	DownRight *images.Point `json:"downright,omitempty" yaml:"downright,omitempty"`
	// Backend selects the engine and codec: "go" or "opencv".
	Backend string `json:"backend" yaml:"backend"`
	// Preview is an optional path for a scaled down copy of the output.
	Preview string `json:"preview,omitempty" yaml:"preview,omitempty"`
	// PreviewSize bounds the preview's longer side.
	PreviewSize int `json:"preview_size" yaml:"preview_size"`
	// Profile prints per-stage timings after the run.
	Profile bool `json:"profile" yaml:"profile"`
	// Verbose enables [DEBUG] output.
	Verbose bool `json:"verbose" yaml:"verbose"`
	// Margin is both the clamping distance and the crop border.
	Margin int `json:"margin" yaml:"margin"`
}

// DefaultConfig returns a configuration with every optional field set to its
// default. Input and Output are left empty.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendGo,
		PreviewSize: DefaultPreviewSize,
		Margin:      DefaultMargin,
	}
}

// Validate reports missing paths, an unknown backend, a negative margin or a
// non-positive preview size.
func (c Config) Validate() error {
	if c.Input == "" {
		return ErrMissingInput
	}
	if c.Output == "" {
		return ErrMissingOutput
	}
	switch c.Backend {
	case BackendGo, BackendOpenCV:
	default:
		return errors.Wrapf(ErrUnknownBackend, "%q", c.Backend)
	}
	if c.Margin < 0 {
		return errors.Errorf("margin must not be negative, got %d", c.Margin)
	}
	if c.Preview != "" && c.PreviewSize <= 0 {
		return errors.Errorf("preview size must be positive, got %d", c.PreviewSize)
	}
	return nil
}

// Resolve turns the configured corners into the rectangle handed to the
// engine for a width x height image.
//
// Missing corners take their DefaultRectangle values. Both corners are then
// clamped into the interior range. A pair that is still not strictly ordered
// after clamping is rejected.
//
// Arguments:
// - width, height: The dimensions of the decoded input image.
//
// Returns:
// - images.Rectangle: The clamped rectangle.
// - error: images.ErrDegenerateRectangle if the corners are not ordered, or
// images.ErrOutOfBounds if the image is too small for the margin.
//
// @example
// rect, err := cfg.Resolve(img.Width, img.Height)
func (c Config) Resolve(width, height int) (images.Rectangle, error) {
	if width-1-c.Margin < c.Margin || height-1-c.Margin < c.Margin {
		return images.Rectangle{}, errors.Wrapf(images.ErrOutOfBounds,
			"%dx%d image leaves no interior with margin %d", width, height, c.Margin)
	}

	rect := DefaultRectangle(width, height, c.Margin)
	if c.TopLeft != nil {
		rect.TopLeft = *c.TopLeft
	}
	if c.DownRight != nil {
		rect.DownRight = *c.DownRight
	}

	rect.TopLeft = ClampPoint(rect.TopLeft, width, height, c.Margin)
	rect.DownRight = ClampPoint(rect.DownRight, width, height, c.Margin)

	if err := rect.Validate(); err != nil {
		return images.Rectangle{}, errors.Wrap(err, "after clamping")
	}
	return rect, nil
}

// DefaultRectangle spans the whole image minus margin on every side.
func DefaultRectangle(width, height, margin int) images.Rectangle {
	return images.Rect(
		images.Pt(margin, margin),
		images.Pt(width-1-margin, height-1-margin),
	)
}

// ClampPoint pins p into [margin, width-1-margin] x [margin, height-1-margin].
// Points already in range are returned unchanged.
func ClampPoint(p images.Point, width, height, margin int) images.Point {
	return images.Pt(
		images.Clamp(p.X, margin, width-1-margin),
		images.Clamp(p.Y, margin, height-1-margin),
	)
}

// ParsePoint parses a corner of the form "x@y". Both parts are base 10
// integers and may be negative; clamping happens later.
func ParsePoint(s string) (images.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return images.Point{}, errors.Wrapf(ErrInvalidCoordinate, "%q", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return images.Point{}, errors.Wrapf(ErrInvalidCoordinate, "%q", s)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return images.Point{}, errors.Wrapf(ErrInvalidCoordinate, "%q", s)
	}
	return images.Pt(x, y), nil
}

// PointFlag is a flag.Value holding an optional corner.
type PointFlag struct {
	Point *images.Point
}

// String implements flag.Value.
func (f *PointFlag) String() string {
	if f == nil || f.Point == nil {
		return ""
	}
	return f.Point.String()
}

// Set implements flag.Value.
func (f *PointFlag) Set(s string) error {
	p, err := ParsePoint(s)
	if err != nil {
		return err
	}
	f.Point = &p
	return nil
}
