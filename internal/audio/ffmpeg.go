package audio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/yt-mashup/internal/model"
)

const (
	// DefaultSampleRate is the rate downloaded audio is decoded to.
	DefaultSampleRate = 44100

	// DefaultChannels is the channel count downloaded audio is decoded to.
	DefaultChannels = 2

	// DefaultBitrateKbps is the MP3 bitrate of the encoded mashup.
	DefaultBitrateKbps = 192
)

// FFmpegDecoder decodes any media file ffmpeg understands to
// interleaved signed 16-bit PCM at a fixed rate and channel count.
type FFmpegDecoder struct {
	// Executable is the ffmpeg binary. Empty means "ffmpeg".
	Executable string

	// SampleRate of the decoded clip. Zero means DefaultSampleRate.
	SampleRate int

	// Channels of the decoded clip. Zero means DefaultChannels.
	Channels int
}

// Decode reads at most max of audio from path. A non-positive max
// decodes the entire file.
func (d *FFmpegDecoder) Decode(ctx context.Context, path string, max time.Duration) (model.AudioClip, error) {
	rate := orInt(d.SampleRate, DefaultSampleRate)
	channels := orInt(d.Channels, DefaultChannels)

	args := []string{"-nostdin", "-i", path}
	if max > 0 {
		args = append(args, "-t", formatSeconds(max))
	}
	args = append(args,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(rate),
		"-ac", strconv.Itoa(channels),
		"-loglevel", "error",
		"pipe:1",
	)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, executable(d.Executable), args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return model.AudioClip{}, fmt.Errorf("ffmpeg decode %s: %w%s", path, err, stderrSuffix(stderr.String()))
	}

	samples := BytesToSamples(out)
	// Drop a trailing partial frame.
	samples = samples[:len(samples)-len(samples)%channels]

	return model.AudioClip{
		Samples:    samples,
		SampleRate: rate,
		Channels:   channels,
	}, nil
}

// Encoder writes PCM clips to MP3 files with ffmpeg's libmp3lame.
type Encoder struct {
	// Executable is the ffmpeg binary. Empty means "ffmpeg".
	Executable string

	// BitrateKbps is the constant output bitrate. Zero means
	// DefaultBitrateKbps.
	BitrateKbps int
}

// Encode writes clip to path as MP3, replacing any existing file.
func (e *Encoder) Encode(ctx context.Context, clip model.AudioClip, path string) error {
	if err := clip.Validate(); err != nil {
		return err
	}

	args := []string{
		"-f", "s16le",
		"-ar", strconv.Itoa(clip.SampleRate),
		"-ac", strconv.Itoa(clip.Channels),
		"-i", "pipe:0",
		"-codec:a", "libmp3lame",
		"-b:a", strconv.Itoa(orInt(e.BitrateKbps, DefaultBitrateKbps)) + "k",
		"-f", "mp3",
		"-loglevel", "error",
		"-y", path,
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, executable(e.Executable), args...)
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		return WriteSamples(stdin, clip.Samples)
	})

	writeErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg encode %s: %w%s", path, err, stderrSuffix(stderr.String()))
	}
	if writeErr != nil {
		return fmt.Errorf("ffmpeg encode %s: writing samples: %w", path, writeErr)
	}
	return nil
}

// Available reports whether the ffmpeg executable can be found.
func Available(exe string) bool {
	_, err := exec.LookPath(executable(exe))
	return err == nil
}

// BytesToSamples converts little-endian 16-bit PCM to samples. A trailing
// odd byte is ignored.
func BytesToSamples(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*2 : i*2+2]))
	}
	return samples
}

// SamplesToBytes converts samples to little-endian 16-bit PCM.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// WriteSamples streams samples to w as little-endian 16-bit PCM.
func WriteSamples(w io.Writer, samples []int16) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	var b [2]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint16(b[:], uint16(s))
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func executable(exe string) string {
	if exe == "" {
		return "ffmpeg"
	}
	return exe
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func stderrSuffix(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return ": " + s
}
