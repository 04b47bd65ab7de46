package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

const maxPixels = 89478485

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 120, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, fn func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(&buf, sample()))
	return buf.Bytes()
}

func TestDecode_PassThrough(t *testing.T) {
	for name, fn := range map[string]func(*bytes.Buffer, image.Image) error{
		"png":  func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) },
		"jpeg": func(b *bytes.Buffer, i image.Image) error { return jpeg.Encode(b, i, nil) },
	} {
		t.Run(name, func(t *testing.T) {
			data := encode(t, fn)
			img, err := Decode(bytes.NewReader(data), maxPixels)
			require.NoError(t, err)
			assert.Equal(t, name, img.Format)
			assert.Equal(t, "image/"+name, img.MIMEType())
			assert.Equal(t, data, img.Data)
			assert.Equal(t, 4, img.Width)
			assert.Equal(t, 3, img.Height)
		})
	}
}

func TestDecode_ReencodesAsPNG(t *testing.T) {
	for name, fn := range map[string]func(*bytes.Buffer, image.Image) error{
		"gif": func(b *bytes.Buffer, i image.Image) error { return gif.Encode(b, i, nil) },
		"bmp": func(b *bytes.Buffer, i image.Image) error { return bmp.Encode(b, i) },
	} {
		t.Run(name, func(t *testing.T) {
			img, err := Decode(bytes.NewReader(encode(t, fn)), maxPixels)
			require.NoError(t, err)
			assert.Equal(t, "png", img.Format)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, 4, cfg.Width)
			assert.Equal(t, 3, cfg.Height)
		})
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not an image"), maxPixels)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDecode_ReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Decode(iotest.ErrReader(boom), maxPixels)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUnsupported)
}

// pngHeader returns a valid 1x1 PNG whose IHDR claims width x height.
func pngHeader(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()
	require.Equal(t, "IHDR", string(data[12:16]))
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecode_TooManyPixels(t *testing.T) {
	data := pngHeader(t, 20000, 20000)
	assert.Less(t, len(data), 1024)

	_, err := Decode(bytes.NewReader(data), maxPixels)
	assert.ErrorIs(t, err, ErrTooManyPixels)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDecode_PixelCapIsInclusive(t *testing.T) {
	img, err := Decode(bytes.NewReader(pngHeader(t, 4, 3)), 12)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)

	_, err = Decode(bytes.NewReader(pngHeader(t, 4, 3)), 11)
	assert.ErrorIs(t, err, ErrTooManyPixels)
}

func TestDecode_CapCheckedBeforeReencode(t *testing.T) {
	data := encode(t, func(b *bytes.Buffer, i image.Image) error { return gif.Encode(b, i, nil) })

	_, err := Decode(bytes.NewReader(data), 5)
	assert.ErrorIs(t, err, ErrTooManyPixels)
}
