// Package images - Image processing utilities
package images

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrDegenerateRectangle is returned when a rectangle has no area.
	ErrDegenerateRectangle = errors.New("degenerate rectangle")
	// ErrOutOfBounds is returned when geometry falls outside the image.
	ErrOutOfBounds = errors.New("out of image bounds")
)

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// String formats the point as "x@y", the form accepted on the command line.
func (p Point) String() string {
	return fmt.Sprintf("%d@%d", p.X, p.Y)
}

// In reports whether p lies inside a width x height image.
func (p Point) In(width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height
}

// Rectangle is a region given by two inclusive pixel corners.
type Rectangle struct {
	TopLeft   Point
	DownRight Point
}

// Rect returns the rectangle spanned by topLeft and downRight.
func Rect(topLeft, downRight Point) Rectangle {
	return Rectangle{TopLeft: topLeft, DownRight: downRight}
}

// String formats the rectangle as "x@y-x@y".
func (r Rectangle) String() string {
	return r.TopLeft.String() + "-" + r.DownRight.String()
}

// Validate checks that the corners are strictly ordered on both axes.
func (r Rectangle) Validate() error {
	if r.TopLeft.X >= r.DownRight.X || r.TopLeft.Y >= r.DownRight.Y {
		return errors.Wrapf(ErrDegenerateRectangle, "top left %s is not above and left of down right %s",
			r.TopLeft, r.DownRight)
	}
	return nil
}

// ValidateIn checks ordering and that both corners lie inside the image.
func (r Rectangle) ValidateIn(width, height int) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if !r.TopLeft.In(width, height) || !r.DownRight.In(width, height) {
		return errors.Wrapf(ErrOutOfBounds, "rectangle %s in %dx%d image", r, width, height)
	}
	return nil
}

// Center returns the per-axis midpoint of the corners, rounding halves to
// the nearest even integer.
func (r Rectangle) Center() Point {
	return Point{
		X: roundHalfEven(r.TopLeft.X + r.DownRight.X),
		Y: roundHalfEven(r.TopLeft.Y + r.DownRight.Y),
	}
}

// ControlPoints returns the rectangle's center followed by the midpoints of
// its top, right, bottom and left edges.
func (r Rectangle) ControlPoints() [5]Point {
	c := r.Center()
	return [5]Point{
		c,
		{X: c.X, Y: r.TopLeft.Y},
		{X: r.DownRight.X, Y: c.Y},
		{X: c.X, Y: r.DownRight.Y},
		{X: r.TopLeft.X, Y: c.Y},
	}
}

// roundHalfEven returns sum/2 rounded to nearest, ties to even.
func roundHalfEven(sum int) int {
	q := sum / 2
	if sum%2 == 0 {
		return q
	}
	// Go division truncates toward zero; move q to the floor first.
	if sum < 0 {
		q--
	}
	if q%2 != 0 {
		q++
	}
	return q
}

// BoundingRect is an axis-aligned box. Width and Height count pixels, so a
// box covering columns 2..17 has Width 16.
type BoundingRect struct {
	X, Y, Width, Height int
}

// BoundingRectOf returns the smallest box containing every point.
func BoundingRectOf(points []Point) BoundingRect {
	if len(points) == 0 {
		return BoundingRect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return BoundingRect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// Rect converts the box to an image.Rectangle.
func (b BoundingRect) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Padded grows the box by margin pixels on every side and returns the region
// to cut out of a width x height image.
//
// **How the region is computed**
//
//	x0 = max(0, X - margin)          y0 = max(0, Y - margin)
//	w  = min(width, Width + 2*margin) h  = min(height, Height + 2*margin)
//
// The span is clamped against the full image size rather than against the
// space left after x0/y0. A box near the right edge can therefore ask for a
// span that runs past the image; the caller cuts with Image.SubImage, which
// truncates at the edge. Existing displacement maps were produced with this
// exact order, so it is kept.
//
// Arguments:
//   - margin: Border in pixels added on each side.
//   - width, height: Dimensions of the image being cropped.
//
// Returns:
//   - image.Rectangle: The requested region, possibly extending past the
//     image on the right or bottom.
//
// Example Usage:
// ```go
//
//	box := BoundingRect{X: 2, Y: 2, Width: 16, Height: 16}
//	r := box.Padded(2, 20, 20) // (0,0)-(20,20)
//
// ```
func (b BoundingRect) Padded(margin, width, height int) image.Rectangle {
	x0 := max(0, b.X-margin)
	y0 := max(0, b.Y-margin)
	w := min(width, b.Width+2*margin)
	h := min(height, b.Height+2*margin)
	return image.Rect(x0, y0, x0+w, y0+h)
}
