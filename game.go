package main

import (
	"fmt"
	"image/color"
	"time"

	"aseview/aseprite"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hako/durafmt"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

const checkerSize = 8

// viewer is the ebiten.Game playing back a loaded sprite: frame advance
// by per-frame duration, tag-aware direction, layer visibility toggles.
type viewer struct {
	sprite *aseprite.Sprite

	// frames caches the composited frame textures; entries invalidate
	// when a layer is toggled.
	frames []*ebiten.Image

	seq    []int // playback order of frame indexes
	seqPos int
	acc    time.Duration
	last   time.Time
	paused bool

	tagIndex int // -1 plays the whole animation

	elapsed time.Duration
	checker *ebiten.Image
}

func newViewer(sp *aseprite.Sprite) (*viewer, error) {
	g := &viewer{
		sprite:   sp,
		frames:   make([]*ebiten.Image, sp.FrameCount()),
		tagIndex: -1,
		last:     time.Now(),
	}
	g.rebuildSequence()
	if len(g.seq) == 0 {
		return nil, fmt.Errorf("sprite has no frames")
	}
	// Composite eagerly so a bad file fails at startup, not mid-playback.
	for i := 0; i < sp.FrameCount(); i++ {
		if _, err := g.frameTexture(i); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// rebuildSequence recomputes the playback order from the active tag.
func (g *viewer) rebuildSequence() {
	n := g.sprite.FrameCount()
	if g.tagIndex < 0 || g.tagIndex >= len(g.sprite.Tags()) {
		g.seq = forwardRange(0, n)
	} else {
		g.seq = tagSequence(g.sprite.Tags()[g.tagIndex], n)
	}
	g.seqPos = 0
	g.acc = 0
	if len(g.seq) == 0 && g.tagIndex >= 0 {
		// An empty tag range still shows its start frame, held. With no
		// tag selected an empty sequence means the sprite has no frames
		// at all; leave it empty for newViewer to reject.
		t := g.sprite.Tags()[g.tagIndex]
		f := t.From
		if f >= n {
			f = n - 1
		}
		if f < 0 {
			f = 0
		}
		g.seq = []int{f}
	}
}

func forwardRange(from, to int) []int {
	var out []int
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

// tagSequence expands a tag's half-open range into playback order.
// Ping-pong plays the range forward then back without repeating the
// endpoints.
func tagSequence(t *aseprite.Tag, frameCount int) []int {
	from, to := t.From, t.To
	if from < 0 {
		from = 0
	}
	if to > frameCount {
		to = frameCount
	}
	if from >= to {
		return nil
	}
	fwd := forwardRange(from, to)
	rev := make([]int, 0, len(fwd))
	for i := len(fwd) - 1; i >= 0; i-- {
		rev = append(rev, fwd[i])
	}
	switch t.Direction {
	case aseprite.DirReverse:
		return rev
	case aseprite.DirPingPong:
		if len(fwd) <= 2 {
			return fwd
		}
		return append(fwd, rev[1:len(rev)-1]...)
	case aseprite.DirPingPongReverse:
		if len(rev) <= 2 {
			return rev
		}
		return append(rev, fwd[1:len(fwd)-1]...)
	default:
		return fwd
	}
}

// frameTexture returns the cached texture for a frame, compositing it
// on first use.
func (g *viewer) frameTexture(frame int) (*ebiten.Image, error) {
	if g.frames[frame] != nil {
		return g.frames[frame], nil
	}
	img, err := g.sprite.FrameImage(frame)
	if err != nil {
		return nil, err
	}
	g.frames[frame] = ebiten.NewImageFromImage(img)
	return g.frames[frame], nil
}

func (g *viewer) invalidateFrames() {
	for i := range g.frames {
		g.frames[i] = nil
	}
}

func (g *viewer) currentFrame() int {
	return g.seq[g.seqPos]
}

func (g *viewer) step(delta int) {
	g.seqPos = (g.seqPos + delta + len(g.seq)) % len(g.seq)
	g.acc = 0
}

func (g *viewer) Update() error {
	now := time.Now()
	dt := now.Sub(g.last)
	g.last = now

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.paused = true
		g.step(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.paused = true
		g.step(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if len(g.sprite.Tags()) > 0 {
			if ebiten.IsKeyPressed(ebiten.KeyShift) {
				g.tagIndex--
				if g.tagIndex < -1 {
					g.tagIndex = len(g.sprite.Tags()) - 1
				}
			} else {
				g.tagIndex++
				if g.tagIndex >= len(g.sprite.Tags()) {
					g.tagIndex = -1
				}
			}
			g.rebuildSequence()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) && gs.Scale < 16 {
		gs.Scale++
		settingsDirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && gs.Scale > 1 {
		gs.Scale--
		settingsDirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		switch gs.Background {
		case "checker":
			gs.Background = "black"
		case "black":
			gs.Background = "white"
		default:
			gs.Background = "checker"
		}
		settingsDirty = true
	}

	// Digits 1-9 toggle layer visibility and force a recomposite.
	for i := 0; i < 9 && i < len(g.sprite.Layers()); i++ {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(i)) {
			g.sprite.Layers()[i].Flags ^= aseprite.LayerFlagVisible
			g.invalidateFrames()
		}
	}

	if g.paused {
		return nil
	}
	g.elapsed += dt
	g.acc += dt
	for {
		d, err := g.sprite.Duration(g.currentFrame())
		if err != nil {
			return err
		}
		if d <= 0 {
			d = 100 * time.Millisecond
		}
		if g.acc < d {
			break
		}
		g.acc -= d
		g.seqPos = (g.seqPos + 1) % len(g.seq)
	}
	return nil
}

func (g *viewer) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)

	tex, err := g.frameTexture(g.currentFrame())
	if err != nil {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("render error: %v", err))
		return
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	w, h := g.sprite.Size()
	scale := float64(gs.Scale)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(sw)/2-float64(w)*scale/2, float64(sh)/2-float64(h)*scale/2)
	screen.DrawImage(tex, op)

	tagName := "(all)"
	if g.tagIndex >= 0 {
		t := g.sprite.Tags()[g.tagIndex]
		tagName = fmt.Sprintf("%s [%d,%d) %s", t.Name, t.From, t.To, t.Direction)
	}
	status := fmt.Sprintf("frame %d/%d  tag %s  x%d  %s",
		g.currentFrame()+1, g.sprite.FrameCount(), tagName, gs.Scale,
		durafmt.Parse(g.elapsed.Truncate(time.Second)).LimitFirstN(2).Format(shortUnits))
	if g.paused {
		status += "  paused"
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *viewer) drawBackground(screen *ebiten.Image) {
	switch gs.Background {
	case "black":
		screen.Fill(color.Black)
	case "white":
		screen.Fill(color.White)
	default:
		if g.checker == nil {
			g.checker = makeChecker()
		}
		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		for y := 0; y < sh; y += checkerSize * 2 {
			for x := 0; x < sw; x += checkerSize * 2 {
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(float64(x), float64(y))
				screen.DrawImage(g.checker, op)
			}
		}
	}
}

func makeChecker() *ebiten.Image {
	img := ebiten.NewImage(checkerSize*2, checkerSize*2)
	light := color.RGBA{0x50, 0x50, 0x50, 0xff}
	dark := color.RGBA{0x38, 0x38, 0x38, 0xff}
	img.Fill(light)
	sub := ebiten.NewImage(checkerSize, checkerSize)
	sub.Fill(dark)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(checkerSize, 0)
	img.DrawImage(sub, op)
	op = &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, checkerSize)
	img.DrawImage(sub, op)
	return img
}

func (g *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 256 && outsideHeight > 192 {
		if gs.WindowWidth != outsideWidth || gs.WindowHeight != outsideHeight {
			gs.WindowWidth = outsideWidth
			gs.WindowHeight = outsideHeight
			settingsDirty = true
		}
	}
	return outsideWidth, outsideHeight
}
