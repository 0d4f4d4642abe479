// Package ioutils provides file system and image helpers for a
// pipeline run.
//
// # Scratch Directories
//
// Every run stages downloads in its own ScratchDir, removed when the
// run ends whether it succeeded or not:
//
//	scratch, err := ioutils.NewScratchDir("", runID)
//	defer scratch.Remove()
//
// # File Operations
//
//	// Move an encoded file into place, across filesystems if needed
//	err := ioutils.MoveFile(ctx, tmpPath, "/out/mashup.mp3")
//
//	// Write a sidecar without exposing a partial file
//	err := ioutils.WriteFile(ctx, "/out/mashup.cue", content)
//
// # Image Processing
//
// ImageService turns a user supplied cover into a bounded JPEG:
//
//	svc := ioutils.NewImageService()
//	cover, _ := svc.PrepareCover(ctx, pngData, 1000)
package ioutils
