package aseprite

// Decoded wire records. Chunks are kept close to the file layout; the
// document model is built from them in one pass by assemble.

const (
	fileMagic  = 0xA5E0
	frameMagic = 0xF1FA

	chunkOldPalette   = 0x0004
	chunkOldPalette2  = 0x0011
	chunkLayer        = 0x2004
	chunkCel          = 0x2005
	chunkCelExtra     = 0x2006
	chunkColorProfile = 0x2007
	chunkTags         = 0x2018
	chunkPalette      = 0x2019
	chunkUserData     = 0x2020
	chunkSlice        = 0x2022
	chunkTileset      = 0x2023
)

// headerOpacityValid is set when layer and cel opacity bytes hold
// meaningful values.
const headerOpacityValid = 0x1

type rawHeader struct {
	frames           uint16
	width            uint16
	height           uint16
	depth            uint16
	flags            uint32
	transparentIndex uint8
}

type rawFrame struct {
	durationMS uint16
	chunks     []rawChunk
}

type rawFile struct {
	header rawHeader
	frames []rawFrame
}

type rawChunk interface {
	chunkType() uint16
}

type rawLayer struct {
	flags      uint16
	layerType  uint16
	childLevel uint16
	blendMode  uint16
	opacity    uint8
	name       string
	tileset    uint32
}

func (rawLayer) chunkType() uint16 { return chunkLayer }

// Cel kinds on the wire. Compressed image data is inflated at decode
// time, so kinds 0 and 2 both end up with pixels filled in.
const (
	celRaw               = 0
	celLinked            = 1
	celCompressed        = 2
	celCompressedTilemap = 3
)

type rawCel struct {
	layerIndex    uint16
	x, y          int16
	opacity       uint8
	celKind       uint16
	zIndex        int16
	width, height uint16
	pixels        []byte
	framePosition uint16
}

func (rawCel) chunkType() uint16 { return chunkCel }

type rawTag struct {
	from      uint16
	to        uint16
	direction uint8
	repeat    uint16
	name      string
}

type rawTags struct {
	tags []rawTag
}

func (rawTags) chunkType() uint16 { return chunkTags }

type rawPaletteEntry struct {
	red, green, blue, alpha uint8
	name                    string
}

type rawPalette struct {
	size    uint32
	from    uint32
	entries []rawPaletteEntry
}

func (rawPalette) chunkType() uint16 { return chunkPalette }

type rawUserData struct {
	text                    string
	hasText                 bool
	red, green, blue, alpha uint8
	hasColor                bool
}

func (rawUserData) chunkType() uint16 { return chunkUserData }

type rawSliceKey struct {
	frame         uint32
	x, y          int32
	width, height uint32

	hasCenter                 bool
	centerX, centerY          int32
	centerWidth, centerHeight uint32

	hasPivot       bool
	pivotX, pivotY int32
}

type rawSlice struct {
	flags uint32
	name  string
	keys  []rawSliceKey
}

func (rawSlice) chunkType() uint16 { return chunkSlice }

// rawSkipped stands in for chunk types the document model does not
// interpret. The assembler turns each one into a warning.
type rawSkipped struct {
	typ uint16
}

func (c rawSkipped) chunkType() uint16 { return c.typ }
