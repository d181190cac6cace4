package images

import (
	"bufio"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	// Registers the WebP decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

// JPEGQuality matches OpenCV's default imwrite quality.
const JPEGQuality = 95

// Decode reads an image in any registered format and converts it to gray.
//
// Arguments:
// - r: The encoded image stream.
//
// Returns:
// - The decoded single channel image.
// - error if the stream cannot be decoded.
func Decode(r io.Reader) (*Image, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "image decoding failed")
	}
	return Grayscale(src), nil
}

// Open decodes the image file at path to gray. The returned image records
// the format implied by the file extension.
func Open(path string) (*Image, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	img, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	img.Format = format
	return img, nil
}

// Encode writes img to w in the given format. WebP output is lossless so
// that intensities survive unchanged.
func Encode(w io.Writer, img *Image, format ImageFormat) error {
	if err := img.Validate(); err != nil {
		return errors.Wrap(err, "encode")
	}

	gray := img.ToGray()
	switch format {
	case FormatWebP:
		return errors.Wrap(webp.Encode(w, gray, &webp.Options{Lossless: true}), "webp encoding failed")
	case FormatJPEG:
		return errors.Wrap(imaging.Encode(w, gray, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)), "jpeg encoding failed")
	case FormatPNG:
		return errors.Wrap(imaging.Encode(w, gray, imaging.PNG), "png encoding failed")
	case FormatGIF:
		return errors.Wrap(imaging.Encode(w, gray, imaging.GIF), "gif encoding failed")
	case FormatBMP:
		return errors.Wrap(imaging.Encode(w, gray, imaging.BMP), "bmp encoding failed")
	case FormatTIFF:
		return errors.Wrap(imaging.Encode(w, gray, imaging.TIFF), "tiff encoding failed")
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

// Save encodes img to path, choosing the format from the extension.
func Save(path string, img *Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}

	w := bufio.NewWriter(f)
	err = Encode(w, img, format)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// No partial output.
		os.Remove(path)
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
