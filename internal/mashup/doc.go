// Package mashup assembles clips into a single MP3 and drives the full
// search, download, and assembly pipeline.
//
// # Pipeline
//
// Pipeline.Run takes a Request and:
//
//  1. Validates it (no I/O happens for invalid requests)
//  2. Searches for candidates with every query variant of the profile
//  3. Downloads and trims clips, skipping candidates that fail
//  4. Synthesizes tone clips if nothing could be downloaded
//  5. Concatenates and encodes the clips, then tags the file and writes
//     an optional tracklist
//
// The Result reports whether the clips were ACQUIRED or SYNTHESIZED.
//
// # Basic Usage
//
//	p, err := mashup.NewFromSettings(ctx, settings, logger, mashup.Hooks{
//	    OnProgress: func(done, target int) { bar.SetCurrent(int64(done)) },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := p.Run(ctx, mashup.Request{
//	    Query:          "Artist X",
//	    CandidateCount: 10,
//	    ClipDuration:   30 * time.Second,
//	    OutputName:     "party",
//	})
//
// # Assembler
//
// Concat joins clips without crossfade or gain changes and Assembler
// encodes the joined buffer, writing to a temporary file first so a
// failed encode never leaves a partial mashup.
package mashup
