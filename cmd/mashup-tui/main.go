package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/handiism/yt-mashup/internal/config"
	"github.com/handiism/yt-mashup/internal/logging"
	"github.com/handiism/yt-mashup/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (.json, .yaml)")
	logFlag := flag.String("log", "", "Write logs to this file")
	flag.Parse()

	// The terminal belongs to the UI
	var logOut io.Writer = io.Discard
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logging.InitWriter(logOut, true)

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
