package images

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUniform(t *testing.T) {
	img := NewUniform(4, 3, 128)
	require.NoError(t, img.Validate())
	assert.Len(t, img.Data, 12)
	for _, v := range img.Data {
		assert.Equal(t, uint8(128), v)
	}
}

func TestImageValidate(t *testing.T) {
	var nilImg *Image
	assert.Error(t, nilImg.Validate())
	assert.Error(t, NewImage(0, 5).Validate())
	assert.Error(t, (&Image{Width: 2, Height: 2, Data: make([]byte, 3)}).Validate())
	assert.NoError(t, NewImage(2, 2).Validate())

	// Errors carry a stack trace like the rest of the package.
	err := (&Image{Width: 2, Height: 2, Data: make([]byte, 3)}).Validate()
	assert.Contains(t, fmt.Sprintf("%+v", err), "(*Image).Validate")
}

func TestImageAtSet(t *testing.T) {
	img := NewImage(3, 2)
	img.Set(2, 1, 42)
	img.Set(5, 5, 99) // ignored

	assert.Equal(t, uint8(42), img.At(2, 1))
	assert.Equal(t, uint8(42), img.Data[5])
	assert.Equal(t, uint8(0), img.At(-1, 0))
	assert.Equal(t, uint8(0), img.At(3, 0))
}

func TestImageCloneIsIndependent(t *testing.T) {
	img := NewUniform(2, 2, 7)
	img.Format = FormatPNG
	c := img.Clone()
	c.Set(0, 0, 1)

	assert.Equal(t, uint8(7), img.At(0, 0))
	assert.Equal(t, FormatPNG, c.Format)
}

func TestImageSubImage(t *testing.T) {
	img := NewImage(5, 4)
	for i := range img.Data {
		img.Data[i] = uint8(i)
	}

	t.Run("Inside", func(t *testing.T) {
		sub := img.SubImage(image.Rect(1, 1, 4, 3))
		assert.Equal(t, 3, sub.Width)
		assert.Equal(t, 2, sub.Height)
		assert.Equal(t, []byte{6, 7, 8, 11, 12, 13}, sub.Data)
	})

	t.Run("Truncated at edge", func(t *testing.T) {
		sub := img.SubImage(image.Rect(3, 2, 10, 10))
		assert.Equal(t, 2, sub.Width)
		assert.Equal(t, 2, sub.Height)
		assert.Equal(t, []byte{13, 14, 18, 19}, sub.Data)
	})

	t.Run("Disjoint", func(t *testing.T) {
		sub := img.SubImage(image.Rect(10, 10, 12, 12))
		assert.Equal(t, 0, sub.Width)
		assert.Empty(t, sub.Data)
	})
}

func TestGrayscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	for y := 10; y < 12; y++ {
		for x := 10; x < 13; x++ {
			src.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	src.Set(10, 10, color.RGBA{A: 255})

	gray := Grayscale(src)
	assert.Equal(t, 3, gray.Width)
	assert.Equal(t, 2, gray.Height)
	assert.Equal(t, uint8(0), gray.At(0, 0))
	assert.Equal(t, uint8(255), gray.At(2, 1))
}

func TestGrayscaleRoundTripsGray(t *testing.T) {
	img := NewImage(4, 4)
	for i := range img.Data {
		img.Data[i] = uint8(i * 16)
	}
	assert.Equal(t, img.Data, Grayscale(img.ToGray()).Data)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 2, Clamp(-5, 2, 97))
	assert.Equal(t, 97, Clamp(500, 2, 97))
	assert.Equal(t, 50, Clamp(50, 2, 97))
	// Lower bound wins on an inverted range.
	assert.Equal(t, 2, Clamp(0, 2, 1))
}

func TestChecksum(t *testing.T) {
	a := NewUniform(4, 4, 9)
	b := NewUniform(4, 4, 9)
	c := NewUniform(2, 8, 9)

	assert.Equal(t, Checksum(a), Checksum(b))
	assert.NotEqual(t, Checksum(a), Checksum(c), "dimensions are part of the checksum")
	assert.Equal(t, "empty", Checksum(nil))
}
