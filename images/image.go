// Package images - Single channel image model, geometry and codecs for the
// displacement map pipeline.
package images

import (
	"image"

	"github.com/pkg/errors"
)

// White is the maximum intensity of an 8-bit sample.
const White = 255

// Image represents a single channel 8-bit image stored row-major.
type Image struct {
	// The format the image was decoded from, if any.
	Format ImageFormat `json:"format" yaml:"format"`
	// The intensity samples, Width*Height bytes, row-major.
	Data []byte `json:"data" yaml:"data"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// NewImage allocates a black image of the given size.
//
// Arguments:
// - width: The width of the image in pixels.
// - height: The height of the image in pixels.
//
// Returns:
// - The zeroed image.
//
// @example
// img := NewImage(640, 480)
func NewImage(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		Data:   make([]byte, width*height),
		Width:  width,
		Height: height,
	}
}

// NewUniform allocates an image where every sample equals value.
func NewUniform(width, height int, value uint8) *Image {
	img := NewImage(width, height)
	for i := range img.Data {
		img.Data[i] = value
	}
	return img
}

// Validate checks that the sample buffer matches the declared dimensions.
func (i *Image) Validate() error {
	if i == nil {
		return errors.New("image is nil")
	}
	if i.Width <= 0 || i.Height <= 0 {
		return errors.Errorf("invalid image dimensions: %dx%d", i.Width, i.Height)
	}
	if len(i.Data) != i.Width*i.Height {
		return errors.Errorf("image data has %d samples, expected %d", len(i.Data), i.Width*i.Height)
	}
	return nil
}

// Bounds returns the image rectangle anchored at the origin.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.Width, i.Height)
}

// At returns the sample at (x, y). Out of range coordinates read as 0.
func (i *Image) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= i.Width || y >= i.Height {
		return 0
	}
	return i.Data[y*i.Width+x]
}

// Set writes the sample at (x, y). Out of range coordinates are ignored.
func (i *Image) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= i.Width || y >= i.Height {
		return
	}
	i.Data[y*i.Width+x] = v
}

// Clone returns a deep copy of the image.
func (i *Image) Clone() *Image {
	data := make([]byte, len(i.Data))
	copy(data, i.Data)
	return &Image{
		Format: i.Format,
		Data:   data,
		Width:  i.Width,
		Height: i.Height,
	}
}

// SubImage copies the region r into a new image.
//
// The region behaves like slicing a row-major array: spans that run past the
// right or bottom edge are truncated at the edge, so the result is the
// intersection of r with the image bounds.
//
// Arguments:
// - r: The region to copy.
//
// Returns:
// - A new image holding the copied samples. It is empty when r does not
// overlap the image.
//
// @example
// crop := img.SubImage(image.Rect(10, 10, 50, 40)) // 40x30
func (i *Image) SubImage(r image.Rectangle) *Image {
	r = r.Intersect(i.Bounds())
	out := NewImage(r.Dx(), r.Dy())
	out.Format = i.Format
	for y := 0; y < out.Height; y++ {
		src := (r.Min.Y+y)*i.Width + r.Min.X
		copy(out.Data[y*out.Width:(y+1)*out.Width], i.Data[src:src+out.Width])
	}
	return out
}

// ToGray wraps the samples in an *image.Gray without copying.
func (i *Image) ToGray() *image.Gray {
	return &image.Gray{
		Pix:    i.Data,
		Stride: i.Width,
		Rect:   i.Bounds(),
	}
}

// FromGray copies an *image.Gray into a new Image anchored at the origin.
func FromGray(g *image.Gray) *Image {
	b := g.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		row := g.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Data[y*out.Width:(y+1)*out.Width], g.Pix[row:row+out.Width])
	}
	return out
}
