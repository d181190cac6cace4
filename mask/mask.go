// Package mask turns a grayscale image into an ellipse-masked displacement
// map: samples inside the ellipse inscribed in a rectangle are kept, the rest
// become white, and the result is cropped to the rectangle plus a margin.
package mask

import (
	"image"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sealmask/images"
)

const (
	// Inside marks a mask sample within the ellipse.
	Inside uint8 = 255
	// Outside marks a mask sample beyond the ellipse.
	Outside uint8 = 0
)

// ErrDimensionMismatch is returned when an image and its mask differ in size.
var ErrDimensionMismatch = errors.New("image and mask dimensions differ")

// Mask is a binary selector with one sample per image pixel. Every sample is
// either Inside or Outside.
type Mask struct {
	Width  int
	Height int
	Data   []byte
}

// NewMask allocates an all-Outside mask.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height),
	}
}

// At returns the sample at (x, y). Out of range coordinates read as Outside.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return Outside
	}
	return m.Data[y*m.Width+x]
}

// Coverage returns the fraction of samples that are Inside.
func (m *Mask) Coverage() float64 {
	if len(m.Data) == 0 {
		return 0
	}
	inside := 0
	for _, v := range m.Data {
		if v == Inside {
			inside++
		}
	}
	return float64(inside) / float64(len(m.Data))
}

// Invert returns the complementary mask.
func (m *Mask) Invert() *Mask {
	out := NewMask(m.Width, m.Height)
	for i, v := range m.Data {
		out.Data[i] = ^v
	}
	return out
}

// GenerateEllipseMask rasterizes the ellipse inscribed in rect into a mask
// the size of the image, and returns the bounding box of the ellipse's
// control points.
//
// The control points are the rectangle's center and the midpoints of its
// four edges. Every pixel inside or on the fitted ellipse is set to Inside;
// the interior is filled, not just the outline.
//
// Arguments:
// - width, height: The dimensions of the image the mask will select from.
// - rect: The rectangle to inscribe the ellipse in. It must be strictly
// ordered and lie inside the image.
//
// Returns:
// - *Mask: A width x height binary mask.
// - images.BoundingRect: The control points' bounding box, used for cropping.
// - error: images.ErrDegenerateRectangle, images.ErrOutOfBounds or
// images.ErrDegenerateEllipse when the geometry is unusable.
//
// @example
// m, box, err := GenerateEllipseMask(20, 20, images.Rect(images.Pt(2, 2), images.Pt(17, 17)))
func GenerateEllipseMask(width, height int, rect images.Rectangle) (*Mask, images.BoundingRect, error) {
	if err := rect.ValidateIn(width, height); err != nil {
		return nil, images.BoundingRect{}, errors.Wrap(err, "ellipse mask")
	}

	points := rect.ControlPoints()
	ellipse, err := images.FitEllipse(points)
	if err != nil {
		return nil, images.BoundingRect{}, errors.Wrap(err, "ellipse mask")
	}

	m := NewMask(width, height)
	fill(m, ellipse)
	// An axis one pixel long puts every pixel center on or past the boundary.
	// The center control point always belongs to the ellipse.
	c := points[0]
	m.Data[c.Y*width+c.X] = Inside

	return m, images.BoundingRectOf(points[:]), nil
}

// fill sets every pixel of e that falls inside the mask to Inside.
func fill(m *Mask, e images.Ellipse) {
	r := e.Bounds().Intersect(image.Rect(0, 0, m.Width, m.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Data[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			if e.Contains(x, y) {
				row[x] = Inside
			}
		}
	}
}
