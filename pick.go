//go:build !js

package main

import (
	"errors"

	"github.com/sqweek/dialog"
)

var errPickCancelled = errors.New("file dialog cancelled")

func pickSpriteFile() (string, error) {
	filename, err := dialog.File().Filter("Aseprite files", "aseprite", "ase").Load()
	if err != nil {
		if err == dialog.Cancelled {
			return "", errPickCancelled
		}
		return "", err
	}
	return filename, nil
}
