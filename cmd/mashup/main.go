package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/handiism/yt-mashup/internal/config"
	"github.com/handiism/yt-mashup/internal/download"
	"github.com/handiism/yt-mashup/internal/logging"
	"github.com/handiism/yt-mashup/internal/mashup"
	"github.com/handiism/yt-mashup/internal/model"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		queryFlag     = flag.String("query", "", "Artist or search term")
		countFlag     = flag.Int("count", unset, "Number of videos to use (1-50, default from config)")
		durationFlag  = flag.Int("duration", unset, "Seconds taken from each video (1-120, default from config)")
		outputFlag    = flag.String("output", "", "Output file name (\".mp3\" is appended when missing)")
		dirFlag       = flag.String("dir", "", "Output directory (overrides config)")
		configFlag    = flag.String("config", "", "Path to config file (.json, .yaml)")
		profileFlag   = flag.String("profile", "", "Download profile: "+strings.Join(config.ProfileNames(), ", "))
		backendFlag   = flag.String("backend", "", "Fetch backend: ytdlp or native")
		tracklistFlag = flag.String("tracklist", "", "Write a tracklist sidecar: cue or m3u")
		coverFlag     = flag.String("cover", "", "Cover art file or URL to embed")
		noTagsFlag    = flag.Bool("no-tags", false, "Do not write ID3 tags")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "YouTube Mashup - Build an audio mashup from an artist's videos")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  mashup -query <artist> [options]")
		fmt.Fprintln(os.Stderr, "  mashup <artist> <count> <seconds> <output>")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "For interactive mode, use: mashup-tui")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	logging.Init(*verboseFlag)

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	inv, err := parseInvocation(*queryFlag, *countFlag, *durationFlag, *outputFlag, flag.Args(), settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if inv.query == "" {
		flag.Usage()
		return 2
	}
	query, count, seconds, output := inv.query, inv.count, inv.seconds, inv.output

	// Apply flags
	if *dirFlag != "" {
		settings.OutputDir = *dirFlag
	}
	if *profileFlag != "" {
		settings.ProfileName = *profileFlag
	}
	if *backendFlag != "" {
		settings.FetchBackend = *backendFlag
	}
	if *tracklistFlag != "" {
		settings.WriteTracklist = true
		settings.TracklistFormat = *tracklistFlag
	}
	if *coverFlag != "" {
		settings.CoverArtPath = *coverFlag
	}
	if *noTagsFlag {
		settings.TagOutput = false
	}

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := mpb.New(mpb.WithWidth(64))
	bar := progress.AddBar(int64(count),
		mpb.PrependDecorators(
			decor.Name("Clips: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.Elapsed(decor.ET_STYLE_GO),
		),
	)

	hooks := mashup.Hooks{
		OnEvent: func(event download.ProgressEvent) {
			if event.Level == download.LevelVerbose && !*verboseFlag {
				return
			}
			fmt.Fprintln(progress, levelPrefix(event.Level)+event.Message)
		},
		OnProgress: func(completed, target int) {
			bar.SetCurrent(int64(completed))
		},
	}

	logger := logging.WithComponent("cli")
	logger.Debug().
		Str("profile", settings.Profile().Name).
		Str("backend", settings.FetchBackend).
		Str("output_dir", settings.OutputDir).
		Msg("starting")

	pipeline, err := mashup.NewFromSettings(ctx, settings, logging.NewLogger(), hooks)
	if err != nil {
		bar.Abort(true)
		progress.Wait()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(progress, "🎵 YouTube Mashup: %s (%d videos x %ds, %s profile)\n", query, count, seconds, settings.Profile().Name)

	res, err := pipeline.Run(ctx, mashup.Request{
		Query:          query,
		CandidateCount: count,
		ClipDuration:   time.Duration(seconds) * time.Second,
		OutputName:     output,
		OutputDir:      settings.OutputDir,
	})

	if err != nil {
		bar.Abort(false)
	} else {
		bar.SetTotal(-1, true)
	}
	progress.Wait()

	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Fprintln(os.Stderr, "\nCancelled.")
			return 130
		case errors.Is(err, model.ErrInvalidArgument):
			fmt.Fprintf(os.Stderr, "Invalid input: %v\n", err)
			return 2
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	fmt.Println()
	fmt.Printf("✨ Mashup created: %s\n", res.Output.Path)
	fmt.Printf("   Clips: %d (%s)\n", res.ClipCount, res.Origin)
	fmt.Printf("   Duration: %s, %.2f MB\n", res.Output.Duration.Round(time.Second), float64(res.Output.Size)/1024/1024)
	if res.TracklistPath != "" {
		fmt.Printf("   Tracklist: %s\n", res.TracklistPath)
	}
	for _, w := range res.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
	return 0
}

// unset marks a numeric flag the user did not supply. An explicit 0 is
// passed through so validation can reject it.
const unset = -1

type invocation struct {
	query   string
	count   int
	seconds int
	output  string
}

// parseInvocation merges flags with the positional form
// <artist> [count] [seconds] [output]. Positional values win over flags;
// values still unset come from settings.
func parseInvocation(query string, count, seconds int, output string, args []string, s *config.Settings) (invocation, error) {
	inv := invocation{query: query, count: count, seconds: seconds, output: output}

	if inv.query == "" && len(args) > 0 {
		inv.query = args[0]
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return inv, fmt.Errorf("invalid count %q: %w", args[1], err)
		}
		inv.count = n
	}
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return inv, fmt.Errorf("invalid duration %q: %w", args[2], err)
		}
		inv.seconds = n
	}
	if len(args) > 3 {
		inv.output = args[3]
	}

	if inv.count == unset {
		inv.count = s.CandidateCount
	}
	if inv.seconds == unset {
		inv.seconds = s.ClipSeconds
	}
	if inv.output == "" {
		inv.output = s.OutputName
	}
	return inv, nil
}

func levelPrefix(level download.ProgressLevel) string {
	switch level {
	case download.LevelError:
		return "❌ "
	case download.LevelWarning:
		return "⚠️  "
	case download.LevelSuccess:
		return "✅ "
	case download.LevelInfo:
		return "ℹ️  "
	default:
		return "   "
	}
}
