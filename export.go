package main

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"aseview/aseprite"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/remeh/sizedwaitgroup"
	xdraw "golang.org/x/image/draw"
)

var (
	exportDirOnce sync.Once
	exportMeta    *csv.Writer
	exportMetaMu  sync.Mutex
)

// runExport dumps the sprite as PNGs under dir: composited frames,
// optionally per-layer cel images and slice images, plus a metadata CSV
// describing what each file holds.
func runExport(sp *aseprite.Sprite, dir string) error {
	start := time.Now()

	var setupErr error
	exportDirOnce.Do(func() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			setupErr = err
			return
		}
		f, err := os.Create(filepath.Join(dir, "metadata.csv"))
		if err != nil {
			setupErr = err
			return
		}
		exportMeta = csv.NewWriter(f)
		exportMeta.Write([]string{"kind", "name", "frame", "layer", "x", "y", "width", "height", "duration_ms"})
	})
	if setupErr != nil {
		return setupErr
	}

	var total atomic.Uint64
	var count atomic.Uint64

	var errMu sync.Mutex
	var firstErr error
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}
	writePNG := func(name string, img *image.RGBA) {
		if exportScale > 1 {
			img = upscale(img, exportScale)
		}
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			fail(err)
			return
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			fail(fmt.Errorf("encode %s: %w", name, err))
			return
		}
		if fi, err := f.Stat(); err == nil {
			total.Add(uint64(fi.Size()))
		}
		count.Add(1)
	}
	meta := func(rec ...string) {
		exportMetaMu.Lock()
		exportMeta.Write(rec)
		exportMetaMu.Unlock()
	}

	frames := forwardRange(0, sp.FrameCount())
	if exportFrame >= 0 {
		if exportFrame >= sp.FrameCount() {
			return fmt.Errorf("frame %d of %d: out of range", exportFrame, sp.FrameCount())
		}
		frames = []int{exportFrame}
	}

	w, h := sp.Size()
	wg := sizedwaitgroup.New(runtime.NumCPU())

	for _, fi := range frames {
		img, err := sp.FrameImage(fi)
		if err != nil {
			return fmt.Errorf("frame %d: %w", fi, err)
		}
		d, _ := sp.Duration(fi)
		meta("frame", "", strconv.Itoa(fi), "", "0", "0", strconv.Itoa(w), strconv.Itoa(h),
			strconv.FormatInt(d.Milliseconds(), 10))
		wg.Add()
		go func(fi int, img *image.RGBA) {
			defer wg.Done()
			writePNG(fmt.Sprintf("frame_%03d.png", fi), img)
		}(fi, img)
	}

	if exportLayers {
		for _, l := range sp.Layers() {
			if l.Type == aseprite.LayerGroup {
				continue
			}
			for _, fi := range frames {
				cel := sp.Cel(l.Index, fi)
				if cel == nil {
					continue
				}
				img, err := sp.CelImage(l.Index, fi)
				if err != nil {
					return fmt.Errorf("layer %d %q frame %d: %w", l.Index, l.Name, fi, err)
				}
				if img == nil {
					continue
				}
				meta("cel", l.Name, strconv.Itoa(fi), strconv.Itoa(l.Index),
					strconv.Itoa(cel.X), strconv.Itoa(cel.Y),
					strconv.Itoa(img.Bounds().Dx()), strconv.Itoa(img.Bounds().Dy()), "")
				wg.Add()
				go func(li, fi int, img *image.RGBA) {
					defer wg.Done()
					writePNG(fmt.Sprintf("layer_%02d_frame_%03d.png", li, fi), img)
				}(l.Index, fi, img)
			}
		}
	}

	if exportSlices {
		if err := exportSliceImages(sp, frames, meta, &wg, writePNG); err != nil {
			return err
		}
	}

	wg.Wait()
	exportMetaMu.Lock()
	exportMeta.Flush()
	exportMetaMu.Unlock()
	errMu.Lock()
	err := firstErr
	errMu.Unlock()
	if err != nil {
		return err
	}

	elapsed := durafmt.Parse(time.Since(start).Truncate(time.Millisecond)).LimitFirstN(2).Format(shortUnits)
	summary := fmt.Sprintf("wrote %d images (%s) to %s in %s",
		count.Load(), humanize.Bytes(total.Load()), dir, elapsed)
	logError("%s", summary)
	if !noNotify {
		notifyExportDone(summary)
	}
	return nil
}

func exportSliceImages(sp *aseprite.Sprite, frames []int, meta func(...string), wg *sizedwaitgroup.SizedWaitGroup, writePNG func(string, *image.RGBA)) error {
	for _, sl := range sp.Slices() {
		for _, fi := range frames {
			img, err := sp.SliceImage(sl.Name, fi)
			if err != nil {
				return fmt.Errorf("slice %q frame %d: %w", sl.Name, fi, err)
			}
			meta("slice", sl.Name, strconv.Itoa(fi), "", "", "",
				strconv.Itoa(img.Bounds().Dx()), strconv.Itoa(img.Bounds().Dy()), "")
			wg.Add()
			go func(name string, fi int, img *image.RGBA) {
				defer wg.Done()
				writePNG(fmt.Sprintf("slice_%s_frame_%03d.png", name, fi), img)
			}(sl.Name, fi, img)

			if !sl.IsNinePatch() {
				continue
			}
			np, err := sp.NinePatch(sl.Name, fi)
			if err != nil {
				return fmt.Errorf("slice %q frame %d: %w", sl.Name, fi, err)
			}
			pieces := []struct {
				name string
				img  *image.RGBA
			}{
				{"topleft", np.TopLeft}, {"topcenter", np.TopCenter}, {"topright", np.TopRight},
				{"leftcenter", np.LeftCenter}, {"center", np.Center}, {"rightcenter", np.RightCenter},
				{"bottomleft", np.BottomLeft}, {"bottomcenter", np.BottomCenter}, {"bottomright", np.BottomRight},
			}
			for _, p := range pieces {
				if p.img.Bounds().Empty() {
					continue
				}
				wg.Add()
				go func(name string, fi int, piece string, img *image.RGBA) {
					defer wg.Done()
					writePNG(fmt.Sprintf("slice_%s_frame_%03d_%s.png", name, fi, piece), img)
				}(sl.Name, fi, p.name, p.img)
			}
		}
	}
	return nil
}

// upscale resizes img by an integer factor with nearest-neighbor
// sampling, keeping pixel art crisp.
func upscale(img *image.RGBA, factor int) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), img, b, xdraw.Src, nil)
	return out
}
