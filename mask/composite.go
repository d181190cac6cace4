package mask

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sealmask/images"
)

// Composite keeps src where the mask is Inside and paints white elsewhere.
//
// The composition is done with bitwise operations on whole buffers, the same
// way it is done with OpenCV:
//
//	foreground = src AND mask
//	background = white AND NOT mask
//	out        = foreground OR background
//
// Arguments:
// - src: The source image.
// - m: A binary mask with the same dimensions as src.
//
// Returns:
// - A new image with the same dimensions as src.
// - ErrDimensionMismatch if the sizes differ.
//
// @example
// out, err := Composite(img, m)
func Composite(src *images.Image, m *Mask) (*images.Image, error) {
	if err := src.Validate(); err != nil {
		return nil, errors.Wrap(err, "composite")
	}
	if m == nil || m.Width != src.Width || m.Height != src.Height || len(m.Data) != len(src.Data) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "image %dx%d", src.Width, src.Height)
	}

	foreground := make([]byte, len(src.Data))
	for i, v := range src.Data {
		foreground[i] = v & m.Data[i]
	}

	inverted := m.Invert()
	out := images.NewImage(src.Width, src.Height)
	out.Format = src.Format
	for i, fg := range foreground {
		out.Data[i] = fg | (images.White & inverted.Data[i])
	}
	return out, nil
}
