package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService prepares cover art for embedding in the mashup's ID3 tag.
//
// Example usage:
//
//	svc := NewImageService()
//	cover, err := svc.PrepareCover(ctx, pngData, 1000)
type ImageService struct {
	// Quality is the JPEG quality used when re-encoding. Zero means 90.
	Quality int
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{Quality: 90}
}

// PrepareCover decodes data, shrinks it to fit in maxSize x maxSize when
// larger, and returns it as JPEG. A non-positive maxSize only converts.
func (s *ImageService) PrepareCover(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	if maxSize <= 0 {
		return s.ConvertToJPEG(ctx, data)
	}
	return s.ResizeImage(ctx, data, maxSize, maxSize)
}

// ResizeImage resizes an image to fit within the specified maximum
// dimensions, keeping the aspect ratio, and returns JPEG bytes. Images
// already small enough are re-encoded at their original size.
//
// The Catmull-Rom algorithm is used for scaling.
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	if width == bounds.Dx() && height == bounds.Dy() {
		return s.encode(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return s.encode(dst)
}

// ConvertToJPEG re-encodes any supported image as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.encode(img)
}

func (s *ImageService) encode(img image.Image) ([]byte, error) {
	quality := s.Quality
	if quality <= 0 {
		quality = 90
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fitWithin scales width x height down to fit maxWidth x maxHeight.
func fitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}
	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		return max(1, int(float64(maxHeight)*ratio)), maxHeight
	}
	return maxWidth, max(1, int(float64(maxWidth)/ratio))
}
