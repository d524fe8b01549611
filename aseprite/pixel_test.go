package aseprite

import (
	"errors"
	"image/color"
	"testing"
)

func TestBlendOver(t *testing.T) {
	opaqueRed := color.RGBA{R: 255, A: 255}
	opaqueBlue := color.RGBA{B: 255, A: 255}

	if got := blendOver(opaqueBlue, opaqueRed); got != opaqueRed {
		t.Errorf("opaque src: got %v want %v", got, opaqueRed)
	}
	if got := blendOver(opaqueBlue, color.RGBA{}); got != opaqueBlue {
		t.Errorf("transparent src: got %v want %v", got, opaqueBlue)
	}
	if got := blendOver(color.RGBA{}, color.RGBA{R: 10, A: 40}); got != (color.RGBA{R: 10, A: 40}) {
		t.Errorf("transparent dst: got %v want src unchanged", got)
	}

	// Half-transparent red over opaque blue: result stays opaque, red
	// and blue split by the source alpha.
	got := blendOver(opaqueBlue, color.RGBA{R: 255, A: 127})
	if got.A != 255 {
		t.Errorf("alpha: got %d want 255", got.A)
	}
	if got.R != 127 || got.B != 128 {
		t.Errorf("channels: got R=%d B=%d want R=127 B=128", got.R, got.B)
	}
	if got.G != 0 {
		t.Errorf("green: got %d want 0", got.G)
	}
}

func TestPixelAtGrayscale(t *testing.T) {
	s := &Sprite{depth: DepthGrayscale}
	c, err := s.pixelAt([]byte{200, 128}, 0)
	if err != nil {
		t.Fatalf("pixelAt: %v", err)
	}
	if c != (color.RGBA{R: 200, G: 200, B: 200, A: 128}) {
		t.Fatalf("got %v", c)
	}
}

func TestPixelAtIndexed(t *testing.T) {
	s := &Sprite{
		depth:            DepthIndexed,
		transparentIndex: 0,
		palette:          Palette{{R: 1, A: 255}, {G: 2, A: 255}},
	}

	// The transparent index wins over palette content.
	c, err := s.pixelAt([]byte{0}, 0)
	if err != nil {
		t.Fatalf("pixelAt(0): %v", err)
	}
	if c != (color.RGBA{}) {
		t.Fatalf("transparent index: got %v want zero", c)
	}

	c, err = s.pixelAt([]byte{1}, 0)
	if err != nil {
		t.Fatalf("pixelAt(1): %v", err)
	}
	if c.G != 2 {
		t.Fatalf("entry 1: got %v", c)
	}

	if _, err := s.pixelAt([]byte{5}, 0); !errors.Is(err, ErrColorIndex) {
		t.Fatalf("out of range: got %v want ErrColorIndex", err)
	}
}
