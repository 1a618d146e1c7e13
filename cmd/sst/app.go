package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/reglet-dev/sst/internal/application/ports"
	"github.com/reglet-dev/sst/internal/domain/values"
	"github.com/reglet-dev/sst/internal/infrastructure/fsref"
	"github.com/reglet-dev/sst/internal/infrastructure/handoff"
	"github.com/reglet-dev/sst/internal/infrastructure/landlock"
	"github.com/reglet-dev/sst/internal/infrastructure/system"
)

// app holds the adapters and flag state of one invocation.
type app struct {
	kernel   ports.Kernel
	opener   ports.PathOpener
	launcher ports.Launcher
	configs  *system.ConfigLoader
	environ  func() []string
	stdout   io.Writer
	stderr   io.Writer

	cfg    *system.Config
	logger *slog.Logger

	cfgFile  string
	format   string
	policies []string
	verbose  bool
	dryRun   bool
}

func newApp() *app {
	return &app{
		kernel:   landlock.NewKernel(),
		opener:   fsref.NewOpener(),
		launcher: handoff.NewLauncher(),
		configs:  system.NewConfigLoader(),
		environ:  os.Environ,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// setup loads the configuration and installs the invocation's logger.
func (a *app) setup() error {
	cfg, err := a.configs.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Level()
	if a.verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	handler := slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})
	a.logger = slog.New(handler).With("invocation", values.NewInvocationID().String())
	slog.SetDefault(a.logger)
	return nil
}
