package aseprite

import "errors"

var (
	// ErrBadMagic and ErrTruncated are fatal decode errors; the file is
	// not usable at all.
	ErrBadMagic  = errors.New("bad magic")
	ErrTruncated = errors.New("truncated file")

	// Structural lookup failures. These are recoverable per operation;
	// the document itself stays valid.
	ErrLayerMissing = errors.New("no such layer")
	ErrFrameRange   = errors.New("frame out of range")
	ErrCelMissing   = errors.New("no cel at layer/frame")
	ErrTagMissing   = errors.New("no such tag")
	ErrSliceMissing = errors.New("no such slice")
	ErrBadNesting   = errors.New("malformed layer nesting")
	ErrNotNinePatch = errors.New("slice has no nine-patch data")

	// ErrDoubleLink means a linked cel pointed at another linked cel.
	// Links must resolve in a single hop.
	ErrDoubleLink = errors.New("linked cel targets another linked cel")

	// ErrColorIndex means an indexed pixel referenced a palette entry
	// that does not exist.
	ErrColorIndex = errors.New("palette index out of range")
)
