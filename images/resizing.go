package images

import "github.com/nfnt/resize"

// Thumbnail scales img down to fit inside a maxSize x maxSize box while
// keeping its aspect ratio.
//
// The preview is meant for a quick look at the result, so it is filtered
// with Lanczos3 like the rest of the resizing code. Images already inside the
// box are returned as a copy; the thumbnail is never larger than the source.
//
// Arguments:
//   - img: The image to scale.
//   - maxSize: The maximum width and height of the thumbnail.
//
// Returns:
//   - *Image: The scaled copy.
//
// @example
// preview := Thumbnail(result, 256)
func Thumbnail(img *Image, maxSize int) *Image {
	if maxSize <= 0 || (img.Width <= maxSize && img.Height <= maxSize) {
		return img.Clone()
	}

	scaled := resize.Thumbnail(uint(maxSize), uint(maxSize), img.ToGray(), resize.Lanczos3)

	out := Grayscale(scaled)
	out.Format = img.Format
	return out
}
