// Package loaders reads texture images from disk and writes rendered
// frames back out.
package loaders

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
	"golang.org/x/xerrors"
)

// ImageData contains loaded image data as a linear color array, row 0 at
// the top
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// decoders maps lowercase file extensions to image decoders. The decoder is
// chosen by extension because TGA has no magic number and its registered
// format would otherwise claim every file passed to image.Decode.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// LoadImage loads an image and converts it to linear colors
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, xerrors.Errorf("while opening image %q: %w", filename, err)
	}
	defer file.Close()

	img, err := decode(file, filepath.Ext(filename))
	if err != nil {
		return nil, xerrors.Errorf("while decoding image %q: %w", filename, err)
	}
	return FromImage(img), nil
}

func decode(r io.Reader, ext string) (image.Image, error) {
	decoder, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, xerrors.Errorf("unsupported image format %q", ext)
	}
	return decoder(r)
}

// FromImage converts a decoded image to linear colors
func FromImage(img image.Image) *ImageData {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = core.ColorFromRGBA(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Texture wraps the data as an image texture
func (d *ImageData) Texture() *material.ImageTexture {
	return material.NewImageTexture(d.Width, d.Height, d.Pixels)
}

// LoadImageTexture loads filename as an image texture
func LoadImageTexture(filename string) (*material.ImageTexture, error) {
	data, err := LoadImage(filename)
	if err != nil {
		return nil, xerrors.Errorf("while loading texture %q: %w", filename, err)
	}
	return data.Texture(), nil
}
