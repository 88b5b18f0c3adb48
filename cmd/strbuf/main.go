package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"clz-go/pkg/buffers"
	"clz-go/pkg/config"
	"clz-go/pkg/log"
	"clz-go/pkg/strbuf"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// loadConfig reads the configuration named by --config and sets up console logging.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	log.SetStd(level)
	if cfg.ConfigFile != "" {
		log.Debug().Str("file", cfg.ConfigFile).Msg("config loaded")
	}
	return cfg, nil
}

// bufferOptions builds the allocator chain: an optional pool under an optional size ceiling.
func bufferOptions(cfg *config.Config) []strbuf.Option {
	var alloc strbuf.Allocator = strbuf.HeapAllocator{}
	if cfg.PoolBuffers {
		alloc = buffers.NewBufferPool()
	}
	if cfg.MaxCapacity > 0 {
		alloc = strbuf.LimitAllocator{Max: cfg.MaxCapacity, Next: alloc}
	}
	return []strbuf.Option{strbuf.WithAllocator(alloc)}
}

func main() {
	app := &cli.App{
		Name:    "strbuf",
		Usage:   "edit, serve and persist growable string buffers",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration `FILE` (default: strbuf.yaml lookup)",
				EnvVars: []string{"STRBUF_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log `LEVEL` (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			evalCommand,
			serveCommand,
			logsCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "strbuf: %v\n", err)
		os.Exit(1)
	}
}
