package main

import (
	"os"
	"runtime"

	"github.com/gen2brain/beeep"
)

// notifyExportDone raises a desktop notification after a batch export.
// The summary already went to the log, so failures here are ignored.
func notifyExportDone(summary string) {
	if summary == "" || headlessDisplay() {
		return
	}
	_ = beeep.Notify("aseview export", summary, "")
}

// headlessDisplay reports a Linux session with no display server, where
// beeep has nowhere to deliver.
func headlessDisplay() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
