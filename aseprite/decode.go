package aseprite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"
)

// Load reads and decodes the sprite file at path.
func Load(path string) (*Sprite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

// Decode reads a complete sprite file from r.
func Decode(r io.Reader) (*Sprite, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

// FromBytes decodes a sprite from an in-memory file image.
func FromBytes(data []byte) (*Sprite, error) {
	raw, err := decode(data)
	if err != nil {
		return nil, err
	}
	return assemble(raw)
}

// eof maps reader exhaustion onto ErrTruncated; other errors pass through.
func eof(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}

// readString reads a u16 length followed by that many UTF-8 bytes.
func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", eof(err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", eof(err)
	}
	return string(b), nil
}

func bytesPerPixel(depth uint16) int {
	return int(depth) / 8
}

// decode parses the 128-byte file header and every frame's chunk records.
// All integers are little-endian.
func decode(data []byte) (*rawFile, error) {
	if len(data) < 128 {
		return nil, fmt.Errorf("file header: %w", ErrTruncated)
	}
	r := bytes.NewReader(data)

	var hdr rawHeader
	var fileSize uint32
	var magic uint16
	if err := binary.Read(r, binary.LittleEndian, &fileSize); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, eof(err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("file header: %w", ErrBadMagic)
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr.frames); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr.width); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr.height); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr.depth); err != nil {
		return nil, eof(err)
	}
	switch hdr.depth {
	case 8, 16, 32:
	default:
		return nil, fmt.Errorf("file header: unsupported color depth %d", hdr.depth)
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr.flags); err != nil {
		return nil, eof(err)
	}
	// Deprecated speed field plus two zero words.
	if _, err := r.Seek(10, io.SeekCurrent); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr.transparentIndex); err != nil {
		return nil, eof(err)
	}
	// Three ignored bytes, color count, pixel ratio, grid, and the
	// reserved tail all sit between here and the first frame.
	if _, err := r.Seek(128, io.SeekStart); err != nil {
		return nil, eof(err)
	}

	bpp := bytesPerPixel(hdr.depth)
	frames := make([]rawFrame, 0, hdr.frames)
	for i := 0; i < int(hdr.frames); i++ {
		var frameBytes uint32
		var fmagic uint16
		var oldCount, duration uint16
		var newCount uint32
		if err := binary.Read(r, binary.LittleEndian, &frameBytes); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &fmagic); err != nil {
			return nil, eof(err)
		}
		if fmagic != frameMagic {
			return nil, fmt.Errorf("frame %d header: %w", i, ErrBadMagic)
		}
		if err := binary.Read(r, binary.LittleEndian, &oldCount); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &duration); err != nil {
			return nil, eof(err)
		}
		if _, err := r.Seek(2, io.SeekCurrent); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &newCount); err != nil {
			return nil, eof(err)
		}

		// Old files only carry the 16-bit count; when it overflows it
		// holds 0xFFFF and the 32-bit count is authoritative.
		count := int(newCount)
		if count == 0 {
			count = int(oldCount)
		}

		chunks := make([]rawChunk, 0, count)
		for c := 0; c < count; c++ {
			var size uint32
			var typ uint16
			if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
				return nil, eof(err)
			}
			if err := binary.Read(r, binary.LittleEndian, &typ); err != nil {
				return nil, eof(err)
			}
			if size < 6 {
				return nil, fmt.Errorf("frame %d chunk %d: %w", i, c, ErrTruncated)
			}
			payload := make([]byte, size-6)
			if _, err := io.ReadFull(r, payload); err != nil {
				return nil, eof(err)
			}
			chunk, err := parseChunk(typ, payload, bpp)
			if err != nil {
				return nil, fmt.Errorf("frame %d chunk %d: %w", i, c, err)
			}
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
		frames = append(frames, rawFrame{durationMS: duration, chunks: chunks})
	}

	return &rawFile{header: hdr, frames: frames}, nil
}

func parseChunk(typ uint16, payload []byte, bpp int) (rawChunk, error) {
	switch typ {
	case chunkOldPalette, chunkOldPalette2:
		// Superseded by the 0x2019 palette; present in old files.
		return nil, nil
	case chunkLayer:
		return parseLayerChunk(payload)
	case chunkCel:
		return parseCelChunk(payload, bpp)
	case chunkTags:
		return parseTagsChunk(payload)
	case chunkPalette:
		return parsePaletteChunk(payload)
	case chunkUserData:
		return parseUserDataChunk(payload)
	case chunkSlice:
		return parseSliceChunk(payload)
	default:
		return rawSkipped{typ: typ}, nil
	}
}

func parseLayerChunk(payload []byte) (rawChunk, error) {
	r := bytes.NewReader(payload)
	var c rawLayer
	var defW, defH uint16
	if err := binary.Read(r, binary.LittleEndian, &c.flags); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.layerType); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.childLevel); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &defW); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &defH); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.blendMode); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.opacity); err != nil {
		return nil, eof(err)
	}
	if _, err := r.Seek(3, io.SeekCurrent); err != nil {
		return nil, eof(err)
	}
	name, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("layer name: %w", err)
	}
	c.name = name
	if c.layerType == uint16(LayerTilemap) {
		if err := binary.Read(r, binary.LittleEndian, &c.tileset); err != nil {
			return nil, eof(err)
		}
	}
	return c, nil
}

func parseCelChunk(payload []byte, bpp int) (rawChunk, error) {
	r := bytes.NewReader(payload)
	var c rawCel
	if err := binary.Read(r, binary.LittleEndian, &c.layerIndex); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.x); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.y); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.opacity); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.celKind); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.zIndex); err != nil {
		return nil, eof(err)
	}
	if _, err := r.Seek(5, io.SeekCurrent); err != nil {
		return nil, eof(err)
	}

	switch c.celKind {
	case celRaw:
		if err := binary.Read(r, binary.LittleEndian, &c.width); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.height); err != nil {
			return nil, eof(err)
		}
		n := int(c.width) * int(c.height) * bpp
		c.pixels = make([]byte, n)
		if _, err := io.ReadFull(r, c.pixels); err != nil {
			return nil, fmt.Errorf("cel pixels: %w", eof(err))
		}
	case celLinked:
		if err := binary.Read(r, binary.LittleEndian, &c.framePosition); err != nil {
			return nil, eof(err)
		}
	case celCompressed:
		if err := binary.Read(r, binary.LittleEndian, &c.width); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.height); err != nil {
			return nil, eof(err)
		}
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("cel zlib: %w", err)
		}
		pixels, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("cel zlib: %w", err)
		}
		n := int(c.width) * int(c.height) * bpp
		if len(pixels) < n {
			return nil, fmt.Errorf("cel pixels: %w", ErrTruncated)
		}
		c.pixels = pixels[:n]
	case celCompressedTilemap:
		// Tilemap payloads are not interpreted; the cel keeps its
		// place in the frame grid with empty content.
	default:
		return nil, fmt.Errorf("cel kind %d unknown", c.celKind)
	}
	return c, nil
}

func parseTagsChunk(payload []byte) (rawChunk, error) {
	r := bytes.NewReader(payload)
	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, eof(err)
	}
	if _, err := r.Seek(8, io.SeekCurrent); err != nil {
		return nil, eof(err)
	}
	c := rawTags{tags: make([]rawTag, 0, count)}
	for i := 0; i < int(count); i++ {
		var t rawTag
		if err := binary.Read(r, binary.LittleEndian, &t.from); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &t.to); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &t.direction); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &t.repeat); err != nil {
			return nil, eof(err)
		}
		// Reserved bytes, a deprecated tag color, and one extra byte.
		if _, err := r.Seek(10, io.SeekCurrent); err != nil {
			return nil, eof(err)
		}
		name, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("tag name: %w", err)
		}
		t.name = name
		c.tags = append(c.tags, t)
	}
	return c, nil
}

func parsePaletteChunk(payload []byte) (rawChunk, error) {
	r := bytes.NewReader(payload)
	var c rawPalette
	var last uint32
	if err := binary.Read(r, binary.LittleEndian, &c.size); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.from); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &last); err != nil {
		return nil, eof(err)
	}
	if last < c.from {
		return nil, fmt.Errorf("palette chunk: inverted color range %d..%d", c.from, last)
	}
	if _, err := r.Seek(8, io.SeekCurrent); err != nil {
		return nil, eof(err)
	}
	n := int(last-c.from) + 1
	c.entries = make([]rawPaletteEntry, 0, n)
	for i := 0; i < n; i++ {
		var flags uint16
		var e rawPaletteEntry
		if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.red); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.green); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.blue); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.alpha); err != nil {
			return nil, eof(err)
		}
		if flags&0x1 != 0 {
			name, err := readString(r)
			if err != nil {
				return nil, fmt.Errorf("palette entry name: %w", err)
			}
			e.name = name
		}
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func parseUserDataChunk(payload []byte) (rawChunk, error) {
	r := bytes.NewReader(payload)
	var c rawUserData
	var flags uint32
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, eof(err)
	}
	if flags&0x1 != 0 {
		text, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("user data text: %w", err)
		}
		c.text = text
		c.hasText = true
	}
	if flags&0x2 != 0 {
		if err := binary.Read(r, binary.LittleEndian, &c.red); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.green); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.blue); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.alpha); err != nil {
			return nil, eof(err)
		}
		c.hasColor = true
	}
	return c, nil
}

func parseSliceChunk(payload []byte) (rawChunk, error) {
	r := bytes.NewReader(payload)
	var c rawSlice
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, eof(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.flags); err != nil {
		return nil, eof(err)
	}
	if _, err := r.Seek(4, io.SeekCurrent); err != nil {
		return nil, eof(err)
	}
	name, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("slice name: %w", err)
	}
	c.name = name
	c.keys = make([]rawSliceKey, 0, count)
	for i := 0; i < int(count); i++ {
		var k rawSliceKey
		if err := binary.Read(r, binary.LittleEndian, &k.frame); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &k.x); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &k.y); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &k.width); err != nil {
			return nil, eof(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &k.height); err != nil {
			return nil, eof(err)
		}
		if c.flags&0x1 != 0 {
			if err := binary.Read(r, binary.LittleEndian, &k.centerX); err != nil {
				return nil, eof(err)
			}
			if err := binary.Read(r, binary.LittleEndian, &k.centerY); err != nil {
				return nil, eof(err)
			}
			if err := binary.Read(r, binary.LittleEndian, &k.centerWidth); err != nil {
				return nil, eof(err)
			}
			if err := binary.Read(r, binary.LittleEndian, &k.centerHeight); err != nil {
				return nil, eof(err)
			}
			k.hasCenter = true
		}
		if c.flags&0x2 != 0 {
			if err := binary.Read(r, binary.LittleEndian, &k.pivotX); err != nil {
				return nil, eof(err)
			}
			if err := binary.Read(r, binary.LittleEndian, &k.pivotY); err != nil {
				return nil, eof(err)
			}
			k.hasPivot = true
		}
		c.keys = append(c.keys, k)
	}
	return c, nil
}
