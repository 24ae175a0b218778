// Package imageprep provides image lookup and geometric normalization
// for the counting pipeline: every photograph is resized to a fixed
// canonical frame and cropped by a fixed margin before segmentation.
package imageprep

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/tiff"
)

// Canonical frame every image is normalized to before statistics are
// extracted. Component areas are only comparable across images because
// all images pass through the same target size and crop.
const (
	TargetWidth  = 640
	TargetHeight = 480
	CropMargin   = 30
)

// Source locates raw images by identifier. An identifier maps to
// <Dir>/<id>.<Ext>.
type Source struct {
	Dir string
	Ext string // file extension without the dot, e.g. "jpg"
}

// NewSource creates a Source rooted at dir. Extension defaults to jpg.
func NewSource(dir string) *Source {
	return &Source{Dir: dir, Ext: "jpg"}
}

// Path returns the file path for an image identifier.
func (s *Source) Path(id int) string {
	return filepath.Join(s.Dir, strconv.Itoa(id)+"."+s.Ext)
}

// ReadImage loads and decodes the raw image for an identifier.
func (s *Source) ReadImage(id int) (image.Image, error) {
	path := s.Path(id)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %d: %w", id, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Prepare normalizes a raw image to the canonical frame: resize to
// TargetWidth x TargetHeight, then crop CropMargin pixels off every edge
// to remove border artifacts (tray edges, vignetting).
func Prepare(img image.Image) *image.NRGBA {
	resized := imaging.Resize(img, TargetWidth, TargetHeight, imaging.Lanczos)
	return Cut(resized, CropMargin)
}

// Cut crops margin pixels from every edge of the image. A margin that
// would consume the whole image leaves a zero-sized crop rather than
// panicking.
func Cut(img *image.NRGBA, margin int) *image.NRGBA {
	b := img.Bounds()
	rect := image.Rect(b.Min.X+margin, b.Min.Y+margin, b.Max.X-margin, b.Max.Y-margin)
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		rect = image.Rect(b.Min.X, b.Min.Y, b.Min.X, b.Min.Y)
	}
	return imaging.Crop(img, rect)
}
