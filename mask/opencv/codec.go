package opencv

import (
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-sealmask/images"
)

// ToMat copies img into a new CV_8UC1 Mat. The caller must Close it.
func ToMat(img *images.Image) (gocv.Mat, error) {
	if err := img.Validate(); err != nil {
		return gocv.NewMat(), errors.Wrap(err, "to mat")
	}
	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC1, img.Data)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "to mat")
	}
	// NewMatFromBytes shares the Go buffer; clone so the Mat owns its data.
	owned := mat.Clone()
	mat.Close()
	return owned, nil
}

// FromMat copies a CV_8UC1 Mat into an Image.
func FromMat(mat gocv.Mat) (*images.Image, error) {
	if mat.Empty() {
		return nil, errors.Wrap(ErrEmptyMat, "from mat")
	}
	if mat.Type() != gocv.MatTypeCV8UC1 {
		return nil, errors.Errorf("from mat: expected CV_8UC1, got %v", mat.Type())
	}

	img := images.NewImage(mat.Cols(), mat.Rows())
	if mat.IsContinuous() {
		copy(img.Data, mat.ToBytes())
		return img, nil
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Data[y*img.Width+x] = mat.GetUCharAt(y, x)
		}
	}
	return img, nil
}

// Decode decodes an encoded image held in memory to 8-bit gray.
func Decode(data []byte) (*images.Image, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, errors.Wrap(err, "opencv decode")
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.Wrap(ErrEmptyMat, "opencv decode")
	}
	return FromMat(mat)
}

// Read loads path as an 8-bit grayscale image with OpenCV's decoders.
func Read(path string) (*images.Image, error) {
	format, err := images.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	if mat.Empty() {
		return nil, errors.Errorf("opencv could not read %s", path)
	}
	defer mat.Close()

	img, err := FromMat(mat)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	img.Format = format
	return img, nil
}

// Write encodes img to path with OpenCV. The format follows the extension.
func Write(path string, img *images.Image) error {
	if _, err := images.FormatFromPath(path); err != nil {
		return err
	}

	mat, err := ToMat(img)
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		os.Remove(path)
		return errors.Errorf("opencv could not write %s", path)
	}
	return nil
}
