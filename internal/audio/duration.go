package audio

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/tcolgate/mp3"
)

// MP3Duration returns the playback length of an MP3 file by summing the
// durations of its frames.
func MP3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	d := mp3.NewDecoder(f)
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
	)
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration()
	}
	return total, nil
}
