package aseprite

import (
	"fmt"
	"image/color"
)

// ColorDepth selects how raw cel bytes map to colors: 4 bytes per pixel
// for RGBA, 2 for grayscale (value, alpha), 1 for indexed.
type ColorDepth uint16

const (
	DepthIndexed   ColorDepth = 8
	DepthGrayscale ColorDepth = 16
	DepthRGBA      ColorDepth = 32
)

func (d ColorDepth) String() string {
	switch d {
	case DepthIndexed:
		return "indexed"
	case DepthGrayscale:
		return "grayscale"
	case DepthRGBA:
		return "RGBA"
	}
	return fmt.Sprintf("depth %d", uint16(d))
}

// pixelAt resolves pixel i of a cel's raw bytes to straight
// (non-premultiplied) RGBA. In indexed mode the document's transparent
// index wins over whatever the palette holds at that position.
func (s *Sprite) pixelAt(pixels []byte, i int) (color.RGBA, error) {
	switch s.depth {
	case DepthRGBA:
		off := i * 4
		return color.RGBA{R: pixels[off], G: pixels[off+1], B: pixels[off+2], A: pixels[off+3]}, nil
	case DepthGrayscale:
		off := i * 2
		v := pixels[off]
		return color.RGBA{R: v, G: v, B: v, A: pixels[off+1]}, nil
	case DepthIndexed:
		idx := int(pixels[i])
		if idx == int(s.transparentIndex) {
			return color.RGBA{}, nil
		}
		if idx >= len(s.palette) {
			return color.RGBA{}, fmt.Errorf("pixel %d: index %d of %d: %w", i, idx, len(s.palette), ErrColorIndex)
		}
		return s.palette[idx], nil
	}
	return color.RGBA{}, fmt.Errorf("color depth %d unsupported", uint16(s.depth))
}

// blendOver composites src over dst, both straight alpha.
func blendOver(dst, src color.RGBA) color.RGBA {
	if src.A == 0xFF || dst.A == 0 {
		return src
	}
	if src.A == 0 {
		return dst
	}
	sa := float32(src.A) / 255
	da := float32(dst.A) / 255
	outA := sa + da*(1-sa)
	r := (float32(src.R)*sa + float32(dst.R)*da*(1-sa)) / outA
	g := (float32(src.G)*sa + float32(dst.G)*da*(1-sa)) / outA
	b := (float32(src.B)*sa + float32(dst.B)*da*(1-sa)) / outA
	return color.RGBA{
		R: uint8(r + 0.5),
		G: uint8(g + 0.5),
		B: uint8(b + 0.5),
		A: uint8(outA*255 + 0.5),
	}
}
