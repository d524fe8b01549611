package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const SETTINGS_VERSION = 1

type settings struct {
	Version int

	WindowWidth  int
	WindowHeight int
	Scale        int
	Background   string // "checker", "black", "white"
	LastFile     string
}

var gsdef settings = settings{
	Version: SETTINGS_VERSION,

	WindowWidth:  960,
	WindowHeight: 720,
	Scale:        4,
	Background:   "checker",
}

var gs settings = gsdef

var settingsDirty bool

const settingsFile = "aseview-settings.json"

// configDir overrides where settings live; empty means the user config
// directory.
var configDir string

func settingsPath() string {
	dir := configDir
	if dir == "" {
		if d, err := os.UserConfigDir(); err == nil {
			dir = d
		}
	}
	if dir == "" {
		return settingsFile
	}
	return filepath.Join(dir, settingsFile)
}

func loadSettings() bool {
	data, err := os.ReadFile(settingsPath())
	if err != nil {
		gs = gsdef
		return false
	}

	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		gs = gsdef
		return false
	}

	if tmp.Version != SETTINGS_VERSION {
		gs = gsdef
		return false
	}

	gs = tmp
	if gs.Scale < 1 {
		gs.Scale = gsdef.Scale
	}
	return true
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	path := settingsPath()
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil {
		logError("save settings: %v", err)
		return
	}
	os.Rename(path+".tmp", path)
}
