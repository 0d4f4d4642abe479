// Package model defines the core data structures used throughout
// the mashup pipeline.
//
// # Candidates
//
// VideoCandidate is a discovered, not-yet-downloaded media reference
// returned by a search backend. Its identity is the ID field:
//
//	c := model.VideoCandidate{ID: "dQw4w9WgXcQ", WebpageURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
//
// # Clips
//
// AudioClip holds interleaved signed 16-bit PCM. Clips are treated as
// immutable once produced; every transformation returns a new clip:
//
//	clip := model.AudioClip{Samples: pcm, SampleRate: 44100, Channels: 2}
//	fmt.Println(clip.Frames(), clip.Duration())
//
// # Results
//
// PipelineResult carries the clips used for a mashup together with an
// Origin tag telling whether they were downloaded (OriginAcquired) or
// generated locally (OriginSynthesized). MashupOutput describes the
// encoded file handed back to the caller.
//
// # Output Names
//
// CoerceOutputName turns user input into a safe file name that always
// ends in the output codec's extension:
//
//	model.CoerceOutputName("my mix")   // "my mix.mp3"
//	model.CoerceOutputName("")         // "mashup.mp3"
package model
