package aseprite

import (
	"errors"
	"image/color"
	"testing"
)

func TestResolvePalettePartialRange(t *testing.T) {
	p := resolvePalette(rawPalette{
		size:    5,
		from:    2,
		entries: []rawPaletteEntry{{red: 255, alpha: 255}},
	})
	if len(p) != 5 {
		t.Fatalf("size: got %d want 5", len(p))
	}
	for _, i := range []int{0, 1, 3, 4} {
		if p[i] != (color.RGBA{}) {
			t.Errorf("entry %d: got %v want transparent black", i, p[i])
		}
	}
	if p[2] != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("entry 2: got %v want red", p[2])
	}
}

func TestResolvePaletteOverflowDropped(t *testing.T) {
	p := resolvePalette(rawPalette{
		size: 3,
		from: 2,
		entries: []rawPaletteEntry{
			{red: 1, alpha: 255},
			{red: 2, alpha: 255},
			{red: 3, alpha: 255},
		},
	})
	if len(p) != 3 {
		t.Fatalf("size: got %d want 3", len(p))
	}
	if p[2].R != 1 {
		t.Errorf("entry 2: got %v want the first explicit entry", p[2])
	}
}

func TestPaletteColorBounds(t *testing.T) {
	p := Palette{{R: 9, A: 255}}
	if c, err := p.Color(0); err != nil || c.R != 9 {
		t.Fatalf("Color(0): got %v, %v", c, err)
	}
	if _, err := p.Color(1); !errors.Is(err, ErrColorIndex) {
		t.Fatalf("Color(1): got %v want ErrColorIndex", err)
	}
	if _, err := p.Color(-1); !errors.Is(err, ErrColorIndex) {
		t.Fatalf("Color(-1): got %v want ErrColorIndex", err)
	}
}

func TestLaterPaletteReplacesEarlier(t *testing.T) {
	s := assembleT(t, &rawFile{
		header: rawHeader{frames: 1, width: 1, height: 1, depth: 8},
		frames: []rawFrame{{durationMS: 100, chunks: []rawChunk{
			rawPalette{size: 2, from: 0, entries: []rawPaletteEntry{{red: 1, alpha: 255}, {red: 2, alpha: 255}}},
			rawPalette{size: 1, from: 0, entries: []rawPaletteEntry{{green: 9, alpha: 255}}},
		}}},
	})
	p := s.Palette()
	if len(p) != 1 || p[0].G != 9 {
		t.Fatalf("palette: got %v want the later chunk only", p)
	}
}
