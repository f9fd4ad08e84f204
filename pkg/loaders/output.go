package loaders

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	"golang.org/x/xerrors"
)

// SaveImage writes img to filename, choosing PNG or WebP from the extension
func SaveImage(filename string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" && ext != ".webp" {
		return xerrors.Errorf("while saving %q: unsupported format %q", filename, ext)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return xerrors.Errorf("while creating output directory: %w", err)
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return xerrors.Errorf("while creating %q: %w", filename, err)
	}

	if ext == ".webp" {
		err = nativewebp.Encode(f, img, nil)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return xerrors.Errorf("while encoding %q: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return xerrors.Errorf("while closing %q: %w", filename, err)
	}
	return nil
}

// Downsample shrinks img by an integer factor with Catmull-Rom filtering.
// Rendering at a multiple of the output size and downsampling gives cheap
// antialiasing of edges.
func Downsample(img *image.RGBA, factor int) *image.RGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, max(1, b.Dx()/factor), max(1, b.Dy()/factor)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
