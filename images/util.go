package images

import (
	"crypto/md5"
	"fmt"

	"gocv.io/x/gocv"
)

// Checksum generates a deterministic checksum of an image's dimensions and
// samples, used to verify that repeated runs produce identical output.
//
// Arguments:
// - img: The image to compute the checksum for.
//
// Returns:
// - A hex-encoded MD5 checksum string.
//
// Example:
//
// ```go
//
//	checksum := Checksum(result)
//	fmt.Printf("Result checksum: %s\n", checksum)
//
// ```
func Checksum(img *Image) string {
	if img == nil || len(img.Data) == 0 {
		return "empty"
	}

	hash := md5.New()
	fmt.Fprintf(hash, "%dx%d:", img.Width, img.Height)
	hash.Write(img.Data)
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// ComputeMatChecksum generates the checksum of a single channel Mat so that
// OpenCV results can be compared against Checksum.
func ComputeMatChecksum(mat gocv.Mat) string {
	if mat.Empty() {
		return "empty"
	}

	hash := md5.New()
	fmt.Fprintf(hash, "%dx%d:", mat.Cols(), mat.Rows())
	hash.Write(mat.ToBytes())
	return fmt.Sprintf("%x", hash.Sum(nil))
}
