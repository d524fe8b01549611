package main

import (
	"errors"
	"flag"
	"log"

	"aseview/aseprite"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	filePath     string
	exportDir    string
	exportLayers bool
	exportSlices bool
	exportScale  int
	exportFrame  int
	doDebug      bool
	noNotify     bool
)

func main() {
	flag.StringVar(&filePath, "file", "", "sprite to open (.aseprite/.ase); empty opens a file dialog")
	flag.StringVar(&exportDir, "export", "", "export PNGs into this directory and exit (no window)")
	flag.BoolVar(&exportLayers, "layers", false, "with -export, also dump per-layer cel images")
	flag.BoolVar(&exportSlices, "slices", false, "with -export, also dump slice images and nine-patch pieces")
	flag.IntVar(&exportScale, "scale", 1, "with -export, integer upscale factor for dumped PNGs")
	flag.IntVar(&exportFrame, "frame", -1, "with -export, dump only this frame (-1 for all)")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.BoolVar(&noNotify, "nonotify", false, "suppress the export-complete desktop notification")
	flag.Parse()

	setupLogging(doDebug)
	if !loadSettings() {
		logDebug("no saved settings, using defaults")
	}

	if filePath == "" && flag.NArg() > 0 {
		filePath = flag.Arg(0)
	}
	if filePath == "" && exportDir == "" {
		picked, err := pickSpriteFile()
		if err != nil {
			if errors.Is(err, errPickCancelled) {
				return
			}
			log.Fatalf("pick file: %v", err)
		}
		filePath = picked
	}
	if filePath == "" {
		log.Fatalf("no input file; pass -file or a path argument")
	}

	sp, err := aseprite.Load(filePath)
	if err != nil {
		log.Fatalf("load %s: %v", filePath, err)
	}
	for _, w := range sp.Warnings() {
		logWarn("%s: %s", filePath, w)
	}
	w, h := sp.Size()
	logDebug("loaded %s: %dx%d, %d frames, %d layers, %d tags, %d slices",
		filePath, w, h, sp.FrameCount(), len(sp.Layers()), len(sp.Tags()), len(sp.Slices()))

	if exportDir != "" {
		if err := runExport(sp, exportDir); err != nil {
			log.Fatalf("export: %v", err)
		}
		return
	}

	gs.LastFile = filePath
	settingsDirty = true

	if gs.WindowWidth < 256 {
		gs.WindowWidth = gsdef.WindowWidth
	}
	if gs.WindowHeight < 192 {
		gs.WindowHeight = gsdef.WindowHeight
	}
	ebiten.SetWindowSize(gs.WindowWidth, gs.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("aseview - " + filePath)

	g, err := newViewer(sp)
	if err != nil {
		log.Fatalf("prepare viewer: %v", err)
	}
	defer func() {
		if settingsDirty {
			saveSettings()
		}
	}()
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("run: %v", err)
	}
}
