package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupported is returned for uploads that do not decode as any registered format.
var ErrUnsupported = errors.New("unsupported image")

// ErrTooManyPixels is returned when the declared dimensions exceed the pixel cap.
var ErrTooManyPixels = fmt.Errorf("%w: too many pixels", ErrUnsupported)

// Formats the model accepts verbatim. Anything else is re-encoded as PNG.
var passThrough = map[string]bool{
	"jpeg": true,
	"png":  true,
	"webp": true,
}

type Image struct {
	Format string
	Data   []byte
	Width  int
	Height int
}

func (i *Image) MIMEType() string {
	return "image/" + i.Format
}

// Decode reads an uploaded file fully and checks its header describes an image
// of at most maxPixels pixels. Only formats that need re-encoding are decoded
// into pixels. Read errors are returned as is so callers can tell an oversized
// body from a bad image.
func Decode(r io.Reader, maxPixels int64) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}
	out := &Image{Format: format, Data: data, Width: cfg.Width, Height: cfg.Height}
	if passThrough[format] {
		return out, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("re-encoding %s as png: %w", format, err)
	}
	out.Format = "png"
	out.Data = buf.Bytes()
	return out, nil
}
