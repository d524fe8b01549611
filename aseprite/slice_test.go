package aseprite

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func slicedSprite(t *testing.T, sl rawSlice) *Sprite {
	t.Helper()
	// 6x6 canvas fully covered by opaque red.
	return assembleT(t, &rawFile{
		header: rgbaHeader(6, 6),
		frames: []rawFrame{{durationMS: 100, chunks: []rawChunk{
			visibleLayer("bg", 0),
			pixelCel(0, 0, 0, 6, 6, redBlock(36)),
			sl,
		}}},
	})
}

func TestSliceImage(t *testing.T) {
	s := slicedSprite(t, rawSlice{name: "box", keys: []rawSliceKey{
		{x: 1, y: 1, width: 3, height: 2},
	}})
	img, err := s.SliceImage("box", 0)
	if err != nil {
		t.Fatalf("SliceImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds: got %v want 3x2", b)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("(0,0): got %v want red", got)
	}

	if _, err := s.SliceImage("missing", 0); !errors.Is(err, ErrSliceMissing) {
		t.Fatalf("missing slice: got %v want ErrSliceMissing", err)
	}
}

func TestSliceImageNegativeOriginClamps(t *testing.T) {
	s := slicedSprite(t, rawSlice{name: "edge", keys: []rawSliceKey{
		{x: -2, y: -2, width: 4, height: 4},
	}})
	img, err := s.SliceImage("edge", 0)
	if err != nil {
		t.Fatalf("SliceImage: %v", err)
	}
	// Origin clamps to (0,0); the full 4x4 still fits the canvas.
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("bounds: got %v want 4x4", b)
	}
}

func TestSliceImagePastCanvasClips(t *testing.T) {
	s := slicedSprite(t, rawSlice{name: "wide", keys: []rawSliceKey{
		{x: 4, y: 4, width: 5, height: 5},
	}})
	img, err := s.SliceImage("wide", 0)
	if err != nil {
		t.Fatalf("SliceImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds: got %v want clipped 2x2", b)
	}
}

func ninePatchRegions(np *NinePatch) []*image.RGBA {
	return []*image.RGBA{
		np.TopLeft, np.TopCenter, np.TopRight,
		np.LeftCenter, np.Center, np.RightCenter,
		np.BottomLeft, np.BottomCenter, np.BottomRight,
	}
}

func TestNinePatchTilesExactly(t *testing.T) {
	// 6x5 slice, center at (1,2) sized 3x2: columns 1/3/2, rows 2/2/1.
	s := slicedSprite(t, rawSlice{
		name:  "panel",
		flags: SliceFlagNinePatch,
		keys: []rawSliceKey{{
			x: 0, y: 0, width: 6, height: 5,
			hasCenter: true, centerX: 1, centerY: 2, centerWidth: 3, centerHeight: 2,
		}},
	})
	np, err := s.NinePatch("panel", 0)
	if err != nil {
		t.Fatalf("NinePatch: %v", err)
	}

	wantW := [3]int{1, 3, 2}
	wantH := [3]int{2, 2, 1}
	regions := ninePatchRegions(np)
	area := 0
	for i, r := range regions {
		col, row := i%3, i/3
		if got := r.Bounds(); got.Dx() != wantW[col] || got.Dy() != wantH[row] {
			t.Errorf("region %d: got %dx%d want %dx%d", i, got.Dx(), got.Dy(), wantW[col], wantH[row])
		}
		area += r.Bounds().Dx() * r.Bounds().Dy()
	}
	if area != 6*5 {
		t.Errorf("total area: got %d want %d", area, 6*5)
	}
}

func TestNinePatchRequiresFlag(t *testing.T) {
	s := slicedSprite(t, rawSlice{name: "plain", keys: []rawSliceKey{
		{width: 4, height: 4},
	}})
	if _, err := s.NinePatch("plain", 0); !errors.Is(err, ErrNotNinePatch) {
		t.Fatalf("got %v want ErrNotNinePatch", err)
	}
	if _, err := s.NinePatch("missing", 0); !errors.Is(err, ErrSliceMissing) {
		t.Fatalf("got %v want ErrSliceMissing", err)
	}
}

func TestNinePatchCenterCoversWholeSlice(t *testing.T) {
	// A center equal to the slice leaves the border regions empty but
	// still tiling.
	s := slicedSprite(t, rawSlice{
		name:  "full",
		flags: SliceFlagNinePatch,
		keys: []rawSliceKey{{
			width: 4, height: 4,
			hasCenter: true, centerWidth: 4, centerHeight: 4,
		}},
	})
	np, err := s.NinePatch("full", 0)
	if err != nil {
		t.Fatalf("NinePatch: %v", err)
	}
	if b := np.Center.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("center: got %v want 4x4", b)
	}
	area := 0
	for _, r := range ninePatchRegions(np) {
		area += r.Bounds().Dx() * r.Bounds().Dy()
	}
	if area != 16 {
		t.Fatalf("total area: got %d want 16", area)
	}
}
