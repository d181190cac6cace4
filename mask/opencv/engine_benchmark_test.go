package opencv

import (
	"fmt"
	"testing"

	"github.com/nvr-ai/go-sealmask/config"
	"github.com/nvr-ai/go-sealmask/images"
	"github.com/nvr-ai/go-sealmask/mask"
)

// Benchmarks compare the pure Go and OpenCV engines on typical map sizes with
// the default full-image rectangle.

var benchmarkSizes = []struct {
	width, height int
}{
	{256, 256},
	{1024, 768},
	{4096, 2048},
}

func benchmarkEngine(b *testing.B, e mask.Engine) {
	for _, size := range benchmarkSizes {
		src := gradient(size.width, size.height)
		r := config.DefaultRectangle(size.width, size.height, config.DefaultMargin)

		b.Run(fmt.Sprintf("%dx%d", size.width, size.height), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(src.Data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := e.Transform(src, r); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkGoEngine runs the scanline rasterizer and byte-wise compositor.
func BenchmarkGoEngine(b *testing.B) {
	benchmarkEngine(b, mask.NewEngine(mask.DefaultOptions()))
}

// BenchmarkOpenCVEngine includes the copies in and out of gocv.Mat.
func BenchmarkOpenCVEngine(b *testing.B) {
	benchmarkEngine(b, NewEngine(mask.DefaultOptions()))
}

func BenchmarkProcessMat(b *testing.B) {
	src := gradient(1024, 768)
	mat, err := ToMat(src)
	if err != nil {
		b.Fatal(err)
	}
	defer mat.Close()
	e := NewEngine(mask.DefaultOptions())
	r := images.Rect(images.Pt(2, 2), images.Pt(1021, 765))

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		out, err := e.ProcessMat(mat, r)
		if err != nil {
			b.Fatal(err)
		}
		out.Close()
	}
}
