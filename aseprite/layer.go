package aseprite

import "fmt"

// LayerType distinguishes image layers from grouping and tilemap layers.
type LayerType uint16

const (
	LayerNormal  LayerType = 0
	LayerGroup   LayerType = 1
	LayerTilemap LayerType = 2
)

func (t LayerType) String() string {
	switch t {
	case LayerNormal:
		return "normal"
	case LayerGroup:
		return "group"
	case LayerTilemap:
		return "tilemap"
	}
	return fmt.Sprintf("layer type %d", uint16(t))
}

// BlendMode is the per-layer blend function selected in the editor. It
// is carried as data; compositing always uses source-over.
type BlendMode uint16

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	BlendAddition
	BlendSubtract
	BlendDivide
)

var blendModeNames = []string{
	"normal", "multiply", "screen", "overlay", "darken", "lighten",
	"color dodge", "color burn", "hard light", "soft light",
	"difference", "exclusion", "hue", "saturation", "color",
	"luminosity", "addition", "subtract", "divide",
}

func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return fmt.Sprintf("blend mode %d", uint16(m))
}

// Layer flag bits.
const (
	LayerFlagVisible   = 0x01
	LayerFlagEditable  = 0x02
	LayerFlagCollapsed = 0x10
	LayerFlagReference = 0x40
)

// Layer is one entry of the flat, depth-annotated layer list. Index is
// the layer's arrival position; ChildLevel is its nesting depth.
type Layer struct {
	Index      int
	Name       string
	Type       LayerType
	Flags      uint16
	ChildLevel int
	BlendMode  BlendMode
	UserData   UserData

	// Tileset is the index of the backing tileset. Tilemap layers only.
	Tileset int

	opacity      uint8
	opacityValid bool
}

// Visible reports whether the layer's visibility flag is set.
func (l *Layer) Visible() bool {
	return l.Flags&LayerFlagVisible != 0
}

// Opacity returns the layer opacity byte. The second result is false
// when the file header marks layer opacity as meaningless.
func (l *Layer) Opacity() (uint8, bool) {
	return l.opacity, l.opacityValid
}

// LayerNode is a layer together with its nested children, in file order.
type LayerNode struct {
	*Layer
	Children []*LayerNode
}

// LayerTree converts the flat list into a tree. A layer at child level
// d becomes a child of the most recently seen layer at level d-1; a
// level with no possible parent fails with ErrBadNesting.
func (s *Sprite) LayerTree() ([]*LayerNode, error) {
	var roots []*LayerNode
	var spine []*LayerNode
	for _, l := range s.layers {
		n := &LayerNode{Layer: l}
		d := l.ChildLevel
		if d == 0 {
			roots = append(roots, n)
			spine = append(spine[:0], n)
			continue
		}
		if d > len(spine) {
			return nil, fmt.Errorf("layer %d %q at level %d: %w", l.Index, l.Name, d, ErrBadNesting)
		}
		parent := spine[d-1]
		parent.Children = append(parent.Children, n)
		spine = append(spine[:d], n)
	}
	return roots, nil
}

// LayerGroups returns the indexes of the group layers enclosing the
// given layer, innermost first. The flat list is walked backward from
// the layer, collecting each group one nesting level up.
func (s *Sprite) LayerGroups(index int) ([]int, error) {
	if index < 0 || index >= len(s.layers) {
		return nil, fmt.Errorf("layer %d: %w", index, ErrLayerMissing)
	}
	var groups []int
	cur := s.layers[index].ChildLevel
	for i := index - 1; i >= 0 && cur > 0; i-- {
		l := s.layers[i]
		if l.Type == LayerGroup && l.ChildLevel == cur-1 {
			groups = append(groups, i)
			cur--
		}
	}
	return groups, nil
}
