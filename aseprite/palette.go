package aseprite

import (
	"fmt"
	"image/color"
)

// Palette is the resolved color table. Positions never written by a
// palette chunk stay transparent black.
type Palette []color.RGBA

// resolvePalette builds the table a palette chunk describes: allocate
// the declared size, then copy the explicit entries starting at the
// chunk's first color index. Entries that would land outside the table
// are dropped rather than failing the whole document.
func resolvePalette(c rawPalette) Palette {
	p := make(Palette, c.size)
	for i, e := range c.entries {
		pos := int(c.from) + i
		if pos >= len(p) {
			break
		}
		p[pos] = color.RGBA{R: e.red, G: e.green, B: e.blue, A: e.alpha}
	}
	return p
}

// Color returns the palette entry at index.
func (p Palette) Color(index int) (color.RGBA, error) {
	if index < 0 || index >= len(p) {
		return color.RGBA{}, fmt.Errorf("index %d of %d: %w", index, len(p), ErrColorIndex)
	}
	return p[index], nil
}
