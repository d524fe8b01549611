package aseprite

import (
	"fmt"
	"image"
)

// Slice flag bits.
const (
	SliceFlagNinePatch = 0x1
	SliceFlagPivot     = 0x2
)

// SliceKey is one keyframe of a slice's geometry, taking effect at
// FrameStart. The origin may be negative.
type SliceKey struct {
	FrameStart    int
	X, Y          int
	Width, Height int

	HasCenter                 bool
	CenterX, CenterY          int
	CenterWidth, CenterHeight int

	HasPivot       bool
	PivotX, PivotY int
}

// Slice is a named sub-rectangle of the canvas.
type Slice struct {
	Name  string
	Flags uint32
	Keys  []SliceKey
}

// IsNinePatch reports whether the slice carries a nine-patch center.
func (sl *Slice) IsNinePatch() bool {
	return sl.Flags&SliceFlagNinePatch != 0
}

// key returns the slice's effective geometry. When a chunk carries
// several keys the last one read wins.
func (sl *Slice) key() SliceKey {
	return sl.Keys[len(sl.Keys)-1]
}

// SliceByName returns the slice with the given name.
func (s *Sprite) SliceByName(name string) (*Slice, error) {
	if sl, ok := s.sliceIndex[name]; ok {
		return sl, nil
	}
	return nil, fmt.Errorf("slice %q: %w", name, ErrSliceMissing)
}

// SliceImage composites the given frame and crops the named slice's
// rectangle out of it. Negative origins clamp to the canvas edge, and
// the rectangle clips to the canvas.
func (s *Sprite) SliceImage(name string, frame int) (*image.RGBA, error) {
	sl, err := s.SliceByName(name)
	if err != nil {
		return nil, err
	}
	img, err := s.FrameImage(frame)
	if err != nil {
		return nil, err
	}
	k := sl.key()
	x, y := k.X, k.Y
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return crop(img, image.Rect(x, y, x+k.Width, y+k.Height)), nil
}

// NinePatch holds the nine regions a nine-patch slice splits into.
// Together they tile the slice rectangle exactly.
type NinePatch struct {
	TopLeft, TopCenter, TopRight          *image.RGBA
	LeftCenter, Center, RightCenter       *image.RGBA
	BottomLeft, BottomCenter, BottomRight *image.RGBA
}

// NinePatch crops the nine regions of a nine-patch slice out of the
// given frame. The center rectangle is relative to the slice origin;
// left column width is the center's x offset, right column width is
// whatever remains past the center.
func (s *Sprite) NinePatch(name string, frame int) (*NinePatch, error) {
	sl, err := s.SliceByName(name)
	if err != nil {
		return nil, err
	}
	k := sl.key()
	if !sl.IsNinePatch() || !k.HasCenter {
		return nil, fmt.Errorf("slice %q: %w", name, ErrNotNinePatch)
	}
	img, err := s.SliceImage(name, frame)
	if err != nil {
		return nil, err
	}
	cx, cy := k.CenterX, k.CenterY
	cw, ch := k.CenterWidth, k.CenterHeight
	rightW := k.Width - cx - cw
	bottomH := k.Height - cy - ch
	return &NinePatch{
		TopLeft:      crop(img, image.Rect(0, 0, cx, cy)),
		TopCenter:    crop(img, image.Rect(cx, 0, cx+cw, cy)),
		TopRight:     crop(img, image.Rect(cx+cw, 0, cx+cw+rightW, cy)),
		LeftCenter:   crop(img, image.Rect(0, cy, cx, cy+ch)),
		Center:       crop(img, image.Rect(cx, cy, cx+cw, cy+ch)),
		RightCenter:  crop(img, image.Rect(cx+cw, cy, cx+cw+rightW, cy+ch)),
		BottomLeft:   crop(img, image.Rect(0, cy+ch, cx, cy+ch+bottomH)),
		BottomCenter: crop(img, image.Rect(cx, cy+ch, cx+cw, cy+ch+bottomH)),
		BottomRight:  crop(img, image.Rect(cx+cw, cy+ch, cx+cw+rightW, cy+ch+bottomH)),
	}, nil
}
