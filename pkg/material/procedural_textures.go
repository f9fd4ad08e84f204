package material

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// NewCheckerboardImage creates a checkerboard image texture, mapped by UV
// rather than by position like CheckerTexture
func NewCheckerboardImage(width, height, checkSize int, color1, color2 core.Color) *ImageTexture {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			checkX := x / checkSize
			checkY := y / checkSize

			var color core.Color
			if (checkX+checkY)%2 == 0 {
				color = color1
			} else {
				color = color2
			}

			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewUVDebugTexture creates a texture showing UV coordinates as colors
// U maps to red channel, V maps to green channel
func NewUVDebugTexture(width, height int) *ImageTexture {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := float64(x) / float64(width-1)
			v := float64(height-1-y) / float64(height-1)
			pixels[y*width+x] = core.NewColor(u, v, 0.0)
		}
	}

	return NewImageTexture(width, height, pixels)
}
