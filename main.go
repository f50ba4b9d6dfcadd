// Package main provides the entry point for the Image Annotator application.
package main

import (
	"log"
	"os"

	baseimage "image-annotator/internal/image"
	"image-annotator/internal/version"
	"image-annotator/ui/mainwindow"

	"fyne.io/fyne/v2/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting Image Annotator %s (%s)", version.Version, version.GitCommit)

	fyneApp := app.NewWithID("io.annotator.image")
	win := mainwindow.New(fyneApp)

	// An image path on the command line is opened straight away.
	if len(os.Args) > 1 {
		path := os.Args[1]
		layer, err := baseimage.Load(path)
		if err != nil {
			log.Printf("Failed to load image %s: %v", path, err)
		} else {
			win.Scene().SetBaseImage(layer)
			win.SetTitle("Image Annotator - " + path)
		}
	}

	win.ShowAndRun()
}
