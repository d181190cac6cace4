// Package images - conversion helpers between Go images and the single
// channel Image used by the masking pipeline.
package images

import (
	"image"

	"golang.org/x/image/draw"
)

// Grayscale converts any decoded image to an 8-bit single channel Image.
//
// Colors are reduced with color.GrayModel, which applies the ITU-R BT.601
// luma weights (0.299, 0.587, 0.114). These are the same weights OpenCV uses
// when reading with IMREAD_GRAYSCALE, so both codecs agree on intensities.
// Images that are already *image.Gray are copied directly.
//
// Arguments:
// - img: The source image in any color model.
//
// Returns:
// - A new Image with the same dimensions, anchored at the origin.
//
// @example
// gray := Grayscale(decoded)
func Grayscale(img image.Image) *Image {
	if g, ok := img.(*image.Gray); ok {
		return FromGray(g)
	}

	bounds := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	// draw.Src converts through the destination color model.
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)

	return FromGray(dst)
}

// Clamp pins value into [lo, hi].
//
// The lower bound wins when hi < lo, matching max(lo, min(value, hi)).
//
// @example
// clamped := Clamp(-5, 2, 97)  // Returns 2
// clamped := Clamp(500, 2, 97) // Returns 97
func Clamp(value, lo, hi int) int {
	return max(lo, min(value, hi))
}
