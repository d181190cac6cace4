// Package opencv - OpenCV implementation of the displacement map pipeline.
//
// It draws the ellipse with cv::ellipse, composes with bitwise operations and
// crops with Mat regions. Results match the pure Go engine in size and in the
// bulk of the ellipse; individual boundary pixels can differ because OpenCV
// rasterizes the outline with its own polygon approximation.
package opencv

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-sealmask/images"
	"github.com/nvr-ai/go-sealmask/mask"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// ErrEmptyMat is returned when OpenCV hands back an empty matrix.
	ErrEmptyMat = errors.New("empty mat")
)

// ellipseShift is the number of fractional bits passed to cv::ellipse, which
// lets the center sit on a half pixel.
const ellipseShift = 1

// Engine runs the pipeline on gocv Mats.
type Engine struct {
	opts mask.Options
}

var _ mask.Engine = (*Engine)(nil)

// NewEngine returns an OpenCV engine.
func NewEngine(opts mask.Options) *Engine {
	return &Engine{opts: opts}
}

// Name returns "opencv".
func (e *Engine) Name() string {
	return "opencv"
}

// Transform converts img to a Mat, runs ProcessMat and converts back.
func (e *Engine) Transform(img *images.Image, rect images.Rectangle) (*images.Image, error) {
	src, err := ToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := e.ProcessMat(src, rect)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	result, err := FromMat(out)
	if err != nil {
		return nil, err
	}
	result.Format = img.Format
	return result, nil
}

// ProcessMat masks a single channel 8-bit Mat with the ellipse inscribed in
// rect and returns the cropped result. The caller owns the returned Mat.
//
// Arguments:
// - src: A CV_8UC1 Mat. It is not modified.
// - rect: The rectangle the ellipse is inscribed in.
//
// Returns:
// - gocv.Mat: The cropped, masked image.
// - error: If src is not 8-bit grayscale or rect does not fit.
//
// @example
// out, err := engine.ProcessMat(gray, images.Rect(images.Pt(2, 2), images.Pt(17, 17)))
//
//	defer out.Close()
func (e *Engine) ProcessMat(src gocv.Mat, rect images.Rectangle) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), errors.Wrap(ErrEmptyMat, "process mat")
	}
	if src.Type() != gocv.MatTypeCV8UC1 {
		return gocv.NewMat(), errors.Errorf("process mat: expected CV_8UC1, got %v", src.Type())
	}
	if e.opts.Margin < 0 {
		return gocv.NewMat(), errors.Errorf("process mat: negative margin %d", e.opts.Margin)
	}
	width, height := src.Cols(), src.Rows()
	if err := rect.ValidateIn(width, height); err != nil {
		return gocv.NewMat(), errors.Wrap(err, "process mat")
	}

	stop := e.opts.Timer.StartOperation(mask.StageMask)
	m := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	defer m.Close()
	m.SetTo(gocv.NewScalar(0, 0, 0, 0))
	drawEllipse(&m, rect)
	box := boundingBox(rect)
	stop()
	e.opts.Timer.RecordMetric("mask_coverage", float64(gocv.CountNonZero(m))/float64(width*height))

	stop = e.opts.Timer.StartOperation(mask.StageComposite)
	composited := composite(src, m)
	stop()
	defer composited.Close()

	stop = e.opts.Timer.StartOperation(mask.StageCrop)
	region := box.Padded(e.opts.Margin, width, height).Intersect(image.Rect(0, 0, width, height))
	view := composited.Region(region)
	out := view.Clone()
	view.Close()
	stop()
	e.opts.Timer.RecordMetric("output_pixels", float64(out.Cols()*out.Rows()))

	return out, nil
}

// drawEllipse fills the ellipse inscribed in rect. Coordinates are doubled
// and passed with one fractional bit.
func drawEllipse(m *gocv.Mat, rect images.Rectangle) {
	center := image.Pt(rect.TopLeft.X+rect.DownRight.X, rect.TopLeft.Y+rect.DownRight.Y)
	axes := image.Pt(rect.DownRight.X-rect.TopLeft.X, rect.DownRight.Y-rect.TopLeft.Y)
	gocv.EllipseWithParams(m, center, axes, 0, 0, 360, white, -1, gocv.Line8, ellipseShift)
}

func boundingBox(rect images.Rectangle) images.BoundingRect {
	points := rect.ControlPoints()
	pts := make([]image.Point, len(points))
	for i, p := range points {
		pts[i] = image.Pt(p.X, p.Y)
	}
	pv := gocv.NewPointVectorFromPoints(pts)
	defer pv.Close()

	r := gocv.BoundingRect(pv)
	return images.BoundingRect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// composite returns (src AND m) OR (NOT m).
func composite(src, m gocv.Mat) gocv.Mat {
	foreground := gocv.NewMat()
	defer foreground.Close()
	gocv.BitwiseAnd(src, m, &foreground)

	background := gocv.NewMat()
	defer background.Close()
	gocv.BitwiseNot(m, &background)

	out := gocv.NewMat()
	gocv.BitwiseOr(foreground, background, &out)
	return out
}
