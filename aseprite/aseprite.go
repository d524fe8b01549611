// Package aseprite decodes layered raster animation files into an
// immutable document model: layers, cels, tags, slices, and a resolved
// palette, with pixel images derived on demand.
package aseprite

import (
	"fmt"
	"image/color"
	"time"
)

// UserData is the free-form text and color the editor attaches to
// layers, cels, and tags. HasText tells an explicit empty string apart
// from no text at all.
type UserData struct {
	Text     string
	HasText  bool
	Color    color.RGBA
	HasColor bool
}

type celKey struct {
	layer, frame int
}

// Sprite is the assembled document: canvas geometry, the flat layer
// list, the sparse cel grid, tags, slices, and the resolved palette.
type Sprite struct {
	width, height    int
	depth            ColorDepth
	transparentIndex uint8
	opacityValid     bool

	durations  []time.Duration
	layers     []*Layer
	cels       map[celKey]*Cel
	tags       []*Tag
	slices     []*Slice
	sliceIndex map[string]*Slice
	palette    Palette
	warnings   []string
}

// The trailing-metadata cursor. A user data chunk attaches to whatever
// the most recent entity-producing chunk introduced.
const (
	lastNone = iota
	lastLayer
	lastTag
	lastCel
)

// assemble folds decoded chunk records into the document in a single
// pass over all frames.
func assemble(raw *rawFile) (*Sprite, error) {
	s := &Sprite{
		width:            int(raw.header.width),
		height:           int(raw.header.height),
		depth:            ColorDepth(raw.header.depth),
		transparentIndex: raw.header.transparentIndex,
		opacityValid:     raw.header.flags&headerOpacityValid != 0,
		cels:             make(map[celKey]*Cel),
		sliceIndex:       make(map[string]*Slice),
	}

	cursor := lastNone
	curTag := 0
	var curCel celKey
	perLayer := make(map[int]int)

	for fi, frame := range raw.frames {
		s.durations = append(s.durations, time.Duration(frame.durationMS)*time.Millisecond)
		for _, chunk := range frame.chunks {
			switch c := chunk.(type) {
			case rawLayer:
				s.layers = append(s.layers, &Layer{
					Index:        len(s.layers),
					Name:         c.name,
					Type:         LayerType(c.layerType),
					Flags:        c.flags,
					ChildLevel:   int(c.childLevel),
					BlendMode:    BlendMode(c.blendMode),
					Tileset:      int(c.tileset),
					opacity:      c.opacity,
					opacityValid: s.opacityValid,
				})
				cursor = lastLayer

			case rawCel:
				// A cel's frame index is its arrival position within
				// its layer, not the frame chunk it appeared in.
				layer := int(c.layerIndex)
				frameIndex := perLayer[layer]
				perLayer[layer] = frameIndex + 1
				cel := &Cel{
					X:       int(c.x),
					Y:       int(c.y),
					Opacity: c.opacity,
					ZIndex:  int(c.zIndex),
				}
				switch c.celKind {
				case celRaw, celCompressed:
					cel.Kind = CelPixels
					cel.Width = int(c.width)
					cel.Height = int(c.height)
					cel.Pixels = c.pixels
				case celLinked:
					cel.Kind = CelLink
					cel.FramePosition = int(c.framePosition)
				default:
					cel.Kind = CelUnsupported
					s.warn("frame %d: tilemap cel on layer %d not rendered", fi, layer)
				}
				curCel = celKey{layer: layer, frame: frameIndex}
				s.cels[curCel] = cel
				cursor = lastCel

			case rawTags:
				curTag = len(s.tags)
				for _, rt := range c.tags {
					s.tags = append(s.tags, &Tag{
						Name:      rt.name,
						From:      int(rt.from),
						To:        int(rt.to),
						Direction: TagDirection(rt.direction),
						Repeat:    int(rt.repeat),
					})
				}
				cursor = lastTag

			case rawPalette:
				s.palette = resolvePalette(c)
				cursor = lastNone

			case rawSlice:
				sl := &Slice{Name: c.name, Flags: c.flags}
				for _, k := range c.keys {
					sl.Keys = append(sl.Keys, SliceKey{
						FrameStart:   int(k.frame),
						X:            int(k.x),
						Y:            int(k.y),
						Width:        int(k.width),
						Height:       int(k.height),
						HasCenter:    k.hasCenter,
						CenterX:      int(k.centerX),
						CenterY:      int(k.centerY),
						CenterWidth:  int(k.centerWidth),
						CenterHeight: int(k.centerHeight),
						HasPivot:     k.hasPivot,
						PivotX:       int(k.pivotX),
						PivotY:       int(k.pivotY),
					})
				}
				if prev, ok := s.sliceIndex[c.name]; ok {
					*prev = *sl
				} else {
					s.slices = append(s.slices, sl)
					s.sliceIndex[c.name] = sl
				}
				cursor = lastNone

			case rawUserData:
				ud := UserData{Text: c.text, HasText: c.hasText}
				if c.hasColor {
					ud.Color = color.RGBA{R: c.red, G: c.green, B: c.blue, A: c.alpha}
					ud.HasColor = true
				}
				switch cursor {
				case lastLayer:
					s.layers[len(s.layers)-1].UserData = ud
				case lastTag:
					if curTag >= len(s.tags) {
						return nil, fmt.Errorf("frame %d: user data beyond tag list: %w", fi, ErrTagMissing)
					}
					s.tags[curTag].UserData = ud
					curTag++
				case lastCel:
					cel, ok := s.cels[curCel]
					if !ok {
						return nil, fmt.Errorf("frame %d: user data for layer %d frame %d: %w", fi, curCel.layer, curCel.frame, ErrCelMissing)
					}
					cel.UserData = ud
				default:
					// Palette and slice metadata is not modeled; the
					// chunk has nothing to attach to.
				}

			case rawSkipped:
				switch c.typ {
				case chunkCelExtra:
					s.warn("frame %d: cel extra chunk skipped", fi)
				case chunkColorProfile:
					s.warn("frame %d: color profile chunk skipped", fi)
				case chunkTileset:
					s.warn("frame %d: tileset chunk skipped", fi)
				default:
					s.warn("frame %d: unknown chunk type 0x%04x skipped", fi, c.typ)
				}
				// The cursor deliberately stays put so tag and cel
				// user data survives interleaved unknown chunks.
			}
		}
	}
	return s, nil
}

func (s *Sprite) warn(format string, v ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, v...))
}

// Size returns the canvas dimensions in pixels.
func (s *Sprite) Size() (int, int) {
	return s.width, s.height
}

// Depth returns the sprite's pixel format.
func (s *Sprite) Depth() ColorDepth {
	return s.depth
}

// TransparentIndex returns the palette index rendered as transparent.
// Only indexed sprites have one.
func (s *Sprite) TransparentIndex() (uint8, bool) {
	return s.transparentIndex, s.depth == DepthIndexed
}

// FrameCount returns the number of frames.
func (s *Sprite) FrameCount() int {
	return len(s.durations)
}

// Duration returns the display duration of the given frame.
func (s *Sprite) Duration(frame int) (time.Duration, error) {
	if frame < 0 || frame >= len(s.durations) {
		return 0, fmt.Errorf("frame %d of %d: %w", frame, len(s.durations), ErrFrameRange)
	}
	return s.durations[frame], nil
}

// Durations returns the display durations of frames [from, to).
func (s *Sprite) Durations(from, to int) ([]time.Duration, error) {
	if from < 0 || to > len(s.durations) || from > to {
		return nil, fmt.Errorf("frames [%d,%d) of %d: %w", from, to, len(s.durations), ErrFrameRange)
	}
	return s.durations[from:to], nil
}

// Layers returns the flat layer list in file order.
func (s *Sprite) Layers() []*Layer {
	return s.layers
}

// Layer returns the layer at index.
func (s *Sprite) Layer(index int) (*Layer, error) {
	if index < 0 || index >= len(s.layers) {
		return nil, fmt.Errorf("layer %d of %d: %w", index, len(s.layers), ErrLayerMissing)
	}
	return s.layers[index], nil
}

// LayerByName returns the first layer with the given name.
func (s *Sprite) LayerByName(name string) (*Layer, error) {
	for _, l := range s.layers {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("layer %q: %w", name, ErrLayerMissing)
}

// Tags returns all tags in arrival order.
func (s *Sprite) Tags() []*Tag {
	return s.tags
}

// Tag returns the tag at index.
func (s *Sprite) Tag(index int) (*Tag, error) {
	if index < 0 || index >= len(s.tags) {
		return nil, fmt.Errorf("tag %d of %d: %w", index, len(s.tags), ErrTagMissing)
	}
	return s.tags[index], nil
}

// Slices returns all slices in arrival order.
func (s *Sprite) Slices() []*Slice {
	return s.slices
}

// Palette returns the resolved color table, or nil when the file
// carried no palette chunk.
func (s *Sprite) Palette() Palette {
	return s.palette
}

// Warnings lists content the decoder tolerated but did not interpret.
func (s *Sprite) Warnings() []string {
	return s.warnings
}
