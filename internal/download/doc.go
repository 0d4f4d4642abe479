// Package download turns search candidates into decoded audio clips.
//
// # Manager
//
// The Manager walks an ordered candidate list one item at a time:
//
//  1. Resolve a locator (direct URL, webpage URL, or a watch URL built from the ID)
//  2. Wait out the pacing period if the previous candidate succeeded
//  3. Fetch the audio with a bounded RetryPolicy
//  4. Decode it to PCM and trim it to the clip duration
//
// Failures of a single candidate are logged, reported as events, and
// skipped. Acquire returns an empty slice, not an error, when nothing
// could be acquired.
//
// # Basic Usage
//
//	manager := download.NewManager(fetcher, decoder, download.Options{
//	    Retry:  download.DefaultRetryPolicy(),
//	    Pacing: 5 * time.Second,
//	    OnEvent: func(event download.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    },
//	})
//
//	clips, err := manager.Acquire(ctx, candidates, 30*time.Second, 10)
//
// # Fetchers
//
// Two Fetcher implementations are provided:
//   - YTDLPFetcher runs the yt-dlp executable and extracts MP3 audio
//   - NativeFetcher streams audio-only formats with a pure Go YouTube client
//
// # Retry Logic
//
// RetryPolicy waits a constant Delay between attempts and caps each
// attempt with AttemptTimeout. Errors wrapped with Permanent are not
// retried. Use RetryPolicy.NoDelay in tests.
package download
