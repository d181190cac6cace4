package mask

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sealmask/images"
)

// Crop cuts box out of img, grown by margin pixels on every side.
//
// See images.BoundingRect.Padded for the exact region arithmetic. The cut
// never reaches outside img: spans that run past the right or bottom edge are
// truncated there.
func Crop(img *images.Image, box images.BoundingRect, margin int) (*images.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, errors.Wrap(err, "crop")
	}
	if margin < 0 {
		return nil, errors.Errorf("crop: negative margin %d", margin)
	}
	if box.Width <= 0 || box.Height <= 0 || !box.Rect().In(img.Bounds()) {
		return nil, errors.Wrapf(images.ErrOutOfBounds, "crop box %+v in %dx%d image", box, img.Width, img.Height)
	}

	return img.SubImage(box.Padded(margin, img.Width, img.Height)), nil
}
