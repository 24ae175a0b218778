package imageprep

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPrepareCanonicalSize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"smaller than target", 100, 80},
		{"exactly target", TargetWidth, TargetHeight},
		{"larger than target", 3000, 2000},
		{"portrait", 480, 640},
	}

	wantW := TargetWidth - 2*CropMargin
	wantH := TargetHeight - 2*CropMargin

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Prepare(solidImage(tt.w, tt.h, color.White))
			if out.Bounds().Dx() != wantW || out.Bounds().Dy() != wantH {
				t.Errorf("Prepare(%dx%d) = %dx%d, want %dx%d",
					tt.w, tt.h, out.Bounds().Dx(), out.Bounds().Dy(), wantW, wantH)
			}
		})
	}
}

func TestCutOversizedMargin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	out := Cut(img, 30)
	if out.Bounds().Dx() != 0 || out.Bounds().Dy() != 0 {
		t.Errorf("Cut with oversized margin = %dx%d, want 0x0",
			out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestSourcePath(t *testing.T) {
	s := NewSource("/data/images")
	if got, want := s.Path(42), "/data/images/42.jpg"; got != want {
		t.Errorf("Path(42) = %s, want %s", got, want)
	}
}
