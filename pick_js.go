//go:build js

package main

import "errors"

var errPickCancelled = errors.New("file dialog cancelled")

func pickSpriteFile() (string, error) {
	return "", errors.New("file dialogs are not available in the browser build")
}
