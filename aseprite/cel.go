package aseprite

import "fmt"

// CelKind says what a cel's content is.
type CelKind uint16

const (
	// CelPixels is materialized image data, raw or inflated.
	CelPixels CelKind = iota
	// CelLink aliases the cel at FramePosition-1 on the same layer.
	CelLink
	// CelUnsupported keeps a tilemap cel's place in the frame grid
	// without carrying renderable content.
	CelUnsupported
)

// Cel is one entry of the sparse layer/frame grid. X and Y may be
// negative; drawing clips to the canvas.
type Cel struct {
	Kind     CelKind
	X, Y     int
	Opacity  uint8
	ZIndex   int
	UserData UserData

	Width, Height int
	Pixels        []byte

	FramePosition int
}

// Cel returns the cel at (layer, frame), or nil when that grid
// position is empty. Sparse grids are normal; absence is not an error.
func (s *Sprite) Cel(layer, frame int) *Cel {
	return s.cels[celKey{layer, frame}]
}

// ResolveCel returns the cel holding actual content for (layer, frame),
// following at most one link hop. A link whose target is itself a link
// fails with ErrDoubleLink.
func (s *Sprite) ResolveCel(layer, frame int) (*Cel, error) {
	cel := s.Cel(layer, frame)
	if cel == nil {
		return nil, fmt.Errorf("layer %d frame %d: %w", layer, frame, ErrCelMissing)
	}
	if cel.Kind != CelLink {
		return cel, nil
	}
	target := s.Cel(layer, cel.FramePosition-1)
	if target == nil {
		return nil, fmt.Errorf("layer %d frame %d links to frame %d: %w", layer, frame, cel.FramePosition-1, ErrCelMissing)
	}
	if target.Kind == CelLink {
		return nil, fmt.Errorf("layer %d frame %d links to frame %d: %w", layer, frame, cel.FramePosition-1, ErrDoubleLink)
	}
	return target, nil
}

// CelSize returns the pixel dimensions of the cel at (layer, frame).
// Only materialized pixel content has a size of its own.
func (s *Sprite) CelSize(layer, frame int) (int, int, bool) {
	cel := s.Cel(layer, frame)
	if cel == nil || cel.Kind != CelPixels {
		return 0, 0, false
	}
	return cel.Width, cel.Height, true
}
