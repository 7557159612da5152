package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/album-catalog/internal/app"
	"github.com/handiism/album-catalog/internal/config"
	"github.com/handiism/album-catalog/internal/logging"
	"go.uber.org/zap"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, a *app.App, args []string) error
}

var commands = []command{
	{"sync", "sync <album-id> <track-id>...", runSync},
	{"renumber", "renumber <album-id>", runRenumber},
	{"filesize", "filesize <album-id> [format]", runFilesize},
	{"show", "show [-viewer id] <album-id>", runShow},
	{"playlist", "playlist [-format m3u] [-audio MP3] <album-id>", runPlaylist},
	{"export", "export <album-id> <format>", runExport},
	{"retag", "retag <album-id>", runRetag},
	{"announcements", "announcements", runAnnouncements},
}

var verbose bool

func main() {
	var (
		configFlag   = flag.String("config", "", "Path to config file")
		logLevelFlag = flag.String("log-level", "", "Log level (overrides config)")
	)
	flag.BoolVar(&verbose, "verbose", false, "Show verbose output")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	cmd, ok := lookup(flag.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", flag.Arg(0))
		usage()
		os.Exit(1)
	}

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *logLevelFlag != "" {
		settings.Log.Level = *logLevelFlag
	}

	logger, err := logging.New(settings.Log.Level, settings.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	a, err := app.New(ctx, settings, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}

	err = cmd.run(ctx, a, flag.Args()[1:])
	_ = a.Close()
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage() {
	fmt.Fprintln(os.Stderr, "albumctl - manage album track lists and archives")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  albumctl [options] <command> [args]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %s\n", c.usage)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "For interactive track ordering, use: albumctl-tui")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
}
