package util

import (
	"os"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-sealmask/images"
)

// ErrNotFound is returned when the input path does not exist.
var ErrNotFound = errors.New("input file not found")

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Format is the format implied by the file extension.
	Format images.ImageFormat
}

// LoadImageFile reads an input image file without decoding it.
//
// Arguments:
// - path: Path of the image file.
//
// Returns:
// - ImageFile: The raw bytes and format of the file.
// - error: ErrNotFound if the path does not exist, images.ErrUnsupportedFormat
// for an unknown extension, or the read error.
func LoadImageFile(path string) (ImageFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ImageFile{}, errors.Wrap(ErrNotFound, path)
		}
		return ImageFile{}, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return ImageFile{}, errors.Errorf("%s is a directory", path)
	}

	format, err := images.FormatFromPath(path)
	if err != nil {
		return ImageFile{}, errors.Wrap(err, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ImageFile{}, errors.Wrapf(err, "read %s", path)
	}
	if len(data) == 0 {
		return ImageFile{}, errors.Errorf("%s is empty", path)
	}

	return ImageFile{
		Path:   path,
		Data:   data,
		Format: format,
	}, nil
}
