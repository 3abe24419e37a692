package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/internal/config"
)

// errUsage marks errors caused by bad command lines.
var errUsage = errors.New("usage")

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("davfs", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "config file (default $XDG_CONFIG_HOME/"+config.FileName+")")
	endpoint := flags.String("e", "", "endpoint name from the config file (default: the configured default)")
	rawURL := flags.String("u", "", "ad-hoc endpoint URL (http[s]://, dav[s]://, mem://, file://)")
	timeout := flags.Duration("timeout", 0, "deadline of each backend call (0 means none)")
	verbose := flags.Bool("v", false, "log backend calls to stderr")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})).
			With("topic", davfs.LogTopic)
	}

	a, err := newApp(*configPath, *endpoint, *rawURL, logger)
	if err != nil {
		fmt.Fprintf(stderr, "davfs: %v\n", err)
		return 1
	}
	a.timeout = *timeout
	a.stdin = stdin
	a.stdout = stdout

	if err := a.dispatch(ctx, flags.Arg(0), flags.Args()[1:]); err != nil {
		fmt.Fprintf(stderr, "davfs: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

// newApp resolves the endpoint and creates the sessions on it.
func newApp(configPath, name, rawURL string, logger *slog.Logger) (*app, error) {
	var (
		e   config.Endpoint
		err error
	)
	if rawURL != "" {
		e, err = config.FromURL(rawURL)
	} else {
		var cfg *config.Config
		cfg, err = config.Load(configPath)
		if err == nil {
			e, err = cfg.Endpoint(name)
		}
	}
	if err != nil {
		return nil, err
	}

	target, err := config.Build(e, logger)
	if err != nil {
		return nil, err
	}

	fsys, err := davfs.NewFileSystem(target.Transport, target.BaseURL, davfs.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &app{
		fs:  fsys,
		url: fsys.URL,
		newFile: func() davfs.FileOps {
			return davfs.NewFile(target.Transport, davfs.WithLogger(logger))
		},
	}, nil
}

// defaultChunkSize is the transfer size of get, put and cat.
const defaultChunkSize = 1 << 20

type app struct {
	fs      davfs.FileSystemOps
	url     func(rel string) string
	newFile func() davfs.FileOps

	timeout   time.Duration
	chunkSize int
	stdin     io.Reader
	stdout    io.Writer
}
