// Package main provides the framegrab CLI: probe stream metadata, dump
// decoded frames, or render a contact sheet from any configured decode
// backend.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/214zzl995/subtitle-fast/pkg/adapters/logger"
	"github.com/214zzl995/subtitle-fast/pkg/adapters/mp4source"
	"github.com/214zzl995/subtitle-fast/pkg/adapters/simsource"
	"github.com/214zzl995/subtitle-fast/pkg/config"
	"github.com/214zzl995/subtitle-fast/pkg/hwdecode"
	"github.com/214zzl995/subtitle-fast/pkg/ports"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "framegrab",
		Usage:   l10n.T("Pull decoded NV12 frames from video files"),
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: l10n.T("Path to a yaml configuration file"),
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: l10n.T("Decode backend (mp4, sim)"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   l10n.T("Log level (debug, info, warn, error, quiet)"),
			},
			&cli.StringFlag{
				Name:  "adapter-vendor",
				Usage: l10n.T("Prefer the GPU adapter with this PCI vendor ID"),
			},
		},
		Commands: []*cli.Command{
			probeCommand(),
			dumpCommand(),
			sheetCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves config file, env overlay, and CLI flags in that
// order.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if backend := c.String("backend"); backend != "" {
		cfg.Backend = backend
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if vendor := c.String("adapter-vendor"); vendor != "" {
		parsed, err := strconv.ParseUint(vendor, 0, 32)
		if err != nil {
			return cfg, fmt.Errorf("parse adapter vendor %q: %w", vendor, err)
		}
		value := uint32(parsed)
		cfg.AdapterVendor = &value
	}
	return cfg, nil
}

// newDecoder builds the platform backend named by the config and wraps it
// in a decoder.
func newDecoder(cfg config.Config) (*hwdecode.Decoder, error) {
	log := logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))

	var platform ports.Platform
	switch cfg.Backend {
	case "mp4", "":
		platform = mp4source.New(nil)
	case "sim":
		opts := simsource.DefaultOptions()
		opts.Width = cfg.Sim.Width
		opts.Height = cfg.Sim.Height
		opts.FrameCount = cfg.Sim.FrameCount
		opts.FPSNum = cfg.Sim.FPSNum
		opts.FPSDen = cfg.Sim.FPSDen
		if cfg.Sim.GPUSurfaces {
			opts.Delivery = ports.DeliverGPUSurface
		}
		platform = simsource.New(opts)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	decoderOpts := []hwdecode.Option{hwdecode.WithLogger(log)}
	if cfg.AdapterVendor != nil {
		decoderOpts = append(decoderOpts, hwdecode.WithVendorOverride(*cfg.AdapterVendor))
	}
	return hwdecode.New(platform, decoderOpts...), nil
}
