// Copyright 2025 The SignServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the sign overlay server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

SignServe resolves English words and phrases to ASL sign clips for a
video overlay client. It can operate as a MessagePack IPC server for
integration with browser overlays, or as a CLI application for testing
and debugging.

The server mode paints glossary matches over a loaded document, picks the
most likely sign variant from the text around a hovered word, and keeps a
bounded LRU of fetched clips with background prefetching of the remaining
variants. Repeated hovers resolve from memory while the cache never grows
past its cap.

# Usage

Start the server with default settings:

	signserve

Use a custom glossary file and enable debug mode:

	signserve -data /path/to/glossary.json -d

Run in CLI mode against a live article:

	signserve -c -url https://example.com/article

The glossary file is a JSON object mapping sign keys to their entry lists,
with an optional __inflectionMap object mapping inflected surface forms back
to their base keys. Phrase keys use underscores ("thank_you") and match their
space-joined display form in text.

# Configuration

Runtime configuration is managed through a TOML file covering the media
cache, clip fetching, disambiguation windows, and CLI defaults:

	[cache]
	capacity = 20
	workers = 3

	[media]
	base_url = "http://localhost:8080/media"
	timeout_ms = 8000
	retries = 2

	[resolver]
	context_window = 160
	nearby_window = 80

The config file is automatically created with defaults if it doesn't exist.
Out-of-range values are clamped with a warning rather than rejected.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Document and
variant requests are processed synchronously; hover responses arrive when
their clip settles and correlate by request id.

Load a document and receive its matches:

	{"id": "d1", "cmd": "load", "x": "Please book a flight"}
	{"id": "d1", "m": [{"s": "book", "w": "book", "p": 7, "n": 4}], "ws": ["book"], "c": 1, "t": 0}

Hover a painted word:

	{"id": "h1", "cmd": "hover", "w": "book", "p": 7}
	{"id": "h1", "w": "book", "v": 0, "n": 2, "e": "book", "d": <clip bytes>, "mt": "video/mp4", "status": "ready", "t": 12}

# Server Mode

The default mode starts a MessagePack IPC server that processes overlay
requests from stdin and writes responses to stdout. This design enables
integration with browser extensions and editors through process
communication.

	server := server.NewServer(session)
	err := server.Start()

The server validates requests, reports errors with code 400, and never
blocks the request loop on clip downloads.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
overlay pipeline. It loads articles or sample text, renders the painted
document to the terminal, and resolves hovered words with human-readable
output.

	inputHandler := cli.NewInputHandler(session, renderer, loader, maxResults)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode.

# Overlay Pipeline

The core functionality is provided by the resolve, highlight, glossary and
media packages, composed by an overlay session:

	session := overlay.NewSession(tables, service, opts)
	matches := session.Load(container)
	results := session.Hover(ctx, "book", pos)

Word resolution is total: unknown surfaces degrade to no-media results
rather than errors. Sense selection scores each glossary variant against
the words around the hovered occurrence and falls back to variant cycling
when the context gives no signal.

# Command Line Flags

The following flags control application behavior:

	-data string
	    Path to the glossary JSON file (default "data/glossary.json")
	-config string
	    Path to a TOML config file (default: platform config dir)
	-d  Enable debug mode with detailed logging
	-q  Quiet mode, errors only
	-c  Run in CLI mode instead of server mode
	-url string
	    Article to load on startup (CLI mode)
	-capacity int
	    Override the clip cache capacity
	-workers int
	    Override the background fetch worker count

The application automatically resolves data and config paths relative to the
executable location, supporting both development and production deployments.

# Media Cache

Fetched clips are held in a word-keyed LRU with a fixed cap. Evicting a
word releases every clip it holds. Background variant fetches run on a
small worker pool; hovering a new word purges queued fetches for old words
so the pool always works on what the user is looking at.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/WeyehnR/ASL-DEMO-sub000/internal/article"
	"github.com/WeyehnR/ASL-DEMO-sub000/internal/cli"
	"github.com/WeyehnR/ASL-DEMO-sub000/internal/logger"
	"github.com/WeyehnR/ASL-DEMO-sub000/internal/utils"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/config"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/glossary"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/media"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/overlay"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/resolve"
	"github.com/WeyehnR/ASL-DEMO-sub000/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "signserve"
	gh      = "https://github.com/WeyehnR/ASL-DEMO-sub000"
)

// sigHandler closes the media service and exits on OS signals.
func sigHandler(svc *media.Service) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		svc.Close()
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "data/glossary.json", "Path to the glossary JSON file")
	configPath := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	quietMode := flag.Bool("q", false, "Quiet mode, errors only")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	articleURL := flag.String("url", "", "Article to load on startup (CLI mode)")
	capacity := flag.Int("capacity", 0, fmt.Sprintf("Override clip cache capacity (default %d)", defaultConfig.Cache.Capacity))
	workers := flag.Int("workers", 0, fmt.Sprintf("Override background fetch workers (default %d)", defaultConfig.Cache.Workers))

	flag.Parse()

	if *showVersion {
		banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		banner.SetStyles(styles)

		banner.Print("")
		banner.Print("[ SignServe ] Signs for the words you read!")
		banner.Print("", "version", Version)
		banner.Print("")
		banner.Print("use -h or --help to see available options")
		banner.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else if *quietMode {
		log.SetLevel(log.ErrorLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	// Initialize path resolver for robust path handling
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
		os.Exit(1)
	}

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("Using config file: (%s)", activeConfigPath)

	// Pathfinder for the glossary file
	resolvedDataPath, err := pathResolver.GetDataFile(*dataPath)
	if err != nil {
		log.Fatalf("Failed to locate glossary file (%s): %v", *dataPath, err)
		os.Exit(1)
	}
	log.Debugf("Using glossary at: %s", resolvedDataPath)

	signs, inflections, err := glossary.LoadFile(resolvedDataPath)
	if err != nil {
		log.Fatalf("Failed to load glossary: %v", err)
		os.Exit(1)
	}

	tables := resolve.NewTables(signs, inflections)
	log.Debugf("Init tables: words=[%d], inflections=[%d], phrases=[%d]",
		len(signs), len(inflections), tables.PhraseCount())

	cacheCapacity := appConfig.Cache.Capacity
	if *capacity > 0 {
		cacheCapacity = *capacity
	}
	cacheWorkers := appConfig.Cache.Workers
	if *workers > 0 {
		cacheWorkers = *workers
	}

	fetcher := media.NewHTTPFetcher(appConfig.Media.BaseURL, appConfig.Media.Timeout(), uint(appConfig.Media.Retries))
	svc := media.NewService(fetcher, media.Options{
		Capacity: cacheCapacity,
		Workers:  cacheWorkers,
	})
	sigHandler(svc)

	session := overlay.NewSession(tables, svc, overlay.Options{
		Layer:         appConfig.Highlight.Layer,
		ContextWindow: appConfig.Resolver.ContextWindow,
		NearbyWindow:  appConfig.Resolver.NearbyWindow,
	})

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Session info:",
			"layer", appConfig.Highlight.Layer,
			"contextWindow", appConfig.Resolver.ContextWindow,
			"nearbyWindow", appConfig.Resolver.NearbyWindow,
			"maxResults", appConfig.CLI.MaxResults)

		loader := article.NewLoader(article.DefaultTimeout)
		renderer := cli.NewRenderer(appConfig.CLI.Colors, appConfig.Highlight.Layer)
		inputHandler := cli.NewInputHandler(session, renderer, loader, appConfig.CLI.MaxResults)

		if *articleURL != "" {
			inputHandler.Load(*articleURL)
		}
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		loader.Close()
		svc.Close()
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(session)

	showStartupInfo(resolvedDataPath, activeConfigPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
	svc.Close()
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataPath, configPath string) {
	box := logger.New(AppName)
	box.SetLevel(log.InfoLevel)

	println("===========")
	println(" SignServe ")
	println("===========")
	box.Infof("Version: %s", Version)
	box.Infof("Process ID: [ %d ]", os.Getpid())
	box.Info("init: OK")
	box.Infof("glossary: ( %s )", dataPath)
	box.Infof("config: ( %s )", config.GetActiveConfigPath(configPath))
	box.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")
}
