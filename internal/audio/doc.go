// Package audio holds the PCM operations and ffmpeg/ID3 plumbing behind
// a mashup.
//
// # Clips
//
// Trim cuts a decoded buffer down to a requested duration and Synthesize
// produces deterministic tone clips for when nothing could be downloaded.
// Both return new buffers and never modify their input.
//
//	clip, err := audio.Trim(decoded, 30*time.Second)
//	tones := audio.Synthesize(10, 30*time.Second)
//
// # ffmpeg
//
// FFmpegDecoder turns downloaded media into interleaved 16-bit PCM and
// Encoder writes PCM back out as MP3. MP3Duration measures the result by
// walking its frames.
//
//	dec := &audio.FFmpegDecoder{SampleRate: 44100, Channels: 2}
//	enc := &audio.Encoder{BitrateKbps: 192}
//
// # Tags and Tracklists
//
// Tagger writes title, artist, album, comment, and cover art frames.
// TracklistCreator writes a CUE sheet or extended M3U that points at the
// offset of each clip inside the mashup:
//
//	creator := audio.NewTracklistCreator(audio.FormatCUE)
//	content := creator.CreateTracklist(path, "Artist X", audio.EntriesFromClips(clips))
package audio
