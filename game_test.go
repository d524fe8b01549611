package main

import (
	"reflect"
	"testing"

	"aseview/aseprite"
)

func TestTagSequence(t *testing.T) {
	tests := []struct {
		name string
		tag  aseprite.Tag
		want []int
	}{
		{"forward", aseprite.Tag{From: 1, To: 4, Direction: aseprite.DirForward}, []int{1, 2, 3}},
		{"reverse", aseprite.Tag{From: 1, To: 4, Direction: aseprite.DirReverse}, []int{3, 2, 1}},
		{"ping-pong", aseprite.Tag{From: 0, To: 3, Direction: aseprite.DirPingPong}, []int{0, 1, 2, 1}},
		{"ping-pong reverse", aseprite.Tag{From: 0, To: 3, Direction: aseprite.DirPingPongReverse}, []int{2, 1, 0, 1}},
		{"ping-pong two frames", aseprite.Tag{From: 0, To: 2, Direction: aseprite.DirPingPong}, []int{0, 1}},
		{"single frame", aseprite.Tag{From: 2, To: 3, Direction: aseprite.DirPingPong}, []int{2}},
		{"empty range", aseprite.Tag{From: 1, To: 1, Direction: aseprite.DirForward}, nil},
		{"clamped to frame count", aseprite.Tag{From: 3, To: 10, Direction: aseprite.DirForward}, []int{3, 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tagSequence(&tc.tag, 5)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewViewerNoFrames(t *testing.T) {
	// A header may declare zero frames; the viewer must reject that
	// with an error, not crash building its playback sequence.
	sp, err := aseprite.FromBytes(fixtureFile(4, 4))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if sp.FrameCount() != 0 {
		t.Fatalf("frames: got %d want 0", sp.FrameCount())
	}
	if _, err := newViewer(sp); err == nil {
		t.Fatal("newViewer accepted a sprite with no frames")
	}
}

func TestRebuildSequenceEmptyTagHoldsStartFrame(t *testing.T) {
	data := fixtureFile(2, 2,
		[][]byte{
			fixtureLayer("a"),
			fixtureRawCel(0, 0, 0, 1, 1, []byte{255, 0, 0, 255}),
			fixtureTags(fixtureTag{from: 1, to: 1, name: "hold"}),
		},
		[][]byte{
			fixtureRawCel(0, 0, 0, 1, 1, []byte{0, 255, 0, 255}),
		},
	)
	sp, err := aseprite.FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	g := &viewer{sprite: sp, tagIndex: 0}
	g.rebuildSequence()
	if len(g.seq) != 1 || g.seq[0] != 1 {
		t.Fatalf("sequence: got %v want the tag's start frame held", g.seq)
	}

	// No tag selected plays everything.
	g.tagIndex = -1
	g.rebuildSequence()
	if len(g.seq) != 2 {
		t.Fatalf("sequence: got %v want both frames", g.seq)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	configDir = t.TempDir()
	defer func() { configDir = "" }()

	gs = gsdef
	gs.Scale = 7
	gs.Background = "black"
	gs.LastFile = "sprites/hero.aseprite"
	saveSettings()

	gs = settings{}
	if !loadSettings() {
		t.Fatalf("loadSettings failed after save")
	}
	if gs.Scale != 7 || gs.Background != "black" || gs.LastFile != "sprites/hero.aseprite" {
		t.Errorf("reloaded settings = %+v", gs)
	}
}

func TestSettingsVersionMismatch(t *testing.T) {
	configDir = t.TempDir()
	defer func() { configDir = "" }()

	gs = gsdef
	gs.Version = SETTINGS_VERSION + 1
	gs.Scale = 9
	saveSettings()

	if loadSettings() {
		t.Fatalf("loadSettings accepted a version mismatch")
	}
	if gs.Scale != gsdef.Scale {
		t.Errorf("settings not reset to defaults: %+v", gs)
	}
}
