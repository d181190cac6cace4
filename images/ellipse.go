package images

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ErrDegenerateEllipse is returned when control points do not span an area.
var ErrDegenerateEllipse = errors.New("degenerate ellipse")

// Point2f is a sub-pixel coordinate.
type Point2f struct {
	X, Y float32
}

// Ellipse is an axis-aligned ellipse. Width and Height are full axis lengths,
// as in OpenCV's rotated rect with a zero angle.
type Ellipse struct {
	Center Point2f
	Width  float32
	Height float32
}

// FitEllipse returns the ellipse through the center and the four edge
// midpoints of a rectangle, in the order produced by Rectangle.ControlPoints.
//
// For that configuration the fit has a closed form: the axis-aligned ellipse
// inscribed in the rectangle, touching each edge at its midpoint. The center
// is the midpoint of the outer control points and is not rounded, so the
// ellipse stays centered on rectangles with an odd extent.
//
// Arguments:
// - points: center, top, right, bottom and left control points.
//
// Returns:
// - The inscribed ellipse.
// - ErrDegenerateEllipse if either axis has zero length.
//
// @example
// e, err := FitEllipse(Rect(Pt(2, 2), Pt(17, 17)).ControlPoints())
// // e.Center = {9.5, 9.5}, e.Width = e.Height = 15
func FitEllipse(points [5]Point) (Ellipse, error) {
	top, right, bottom, left := points[1], points[2], points[3], points[4]
	w := float32(right.X - left.X)
	h := float32(bottom.Y - top.Y)
	if w <= 0 || h <= 0 {
		return Ellipse{}, errors.Wrapf(ErrDegenerateEllipse, "axes %gx%g", w, h)
	}
	return Ellipse{
		Center: Point2f{
			X: float32(left.X+right.X) / 2,
			Y: float32(top.Y+bottom.Y) / 2,
		},
		Width:  w,
		Height: h,
	}, nil
}

// Contains reports whether pixel (x, y) lies inside or on the ellipse.
func (e Ellipse) Contains(x, y int) bool {
	a, b := e.Width/2, e.Height/2
	dx := float32(x) - e.Center.X
	dy := float32(y) - e.Center.Y
	return (dx*dx)/(a*a)+(dy*dy)/(b*b) <= 1
}

// Bounds returns the pixel rectangle that can contain ellipse pixels.
func (e Ellipse) Bounds() image.Rectangle {
	a, b := e.Width/2, e.Height/2
	return image.Rect(
		int(math32.Ceil(e.Center.X-a)),
		int(math32.Ceil(e.Center.Y-b)),
		int(math32.Floor(e.Center.X+a))+1,
		int(math32.Floor(e.Center.Y+b))+1,
	)
}
