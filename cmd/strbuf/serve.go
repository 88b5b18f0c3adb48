package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"clz-go/pkg/api"
	"clz-go/pkg/appdir"
	"clz-go/pkg/log"
	"clz-go/pkg/registry"
	"clz-go/pkg/store"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "serve named buffers over HTTP",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "listen", Aliases: []string{"l"}, Usage: "Listen `ADDR` (overrides listen_addr)"},
		&cli.BoolFlag{Name: "no-store", Usage: "Disable snapshots"},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	if err := log.Init(cfg.LogDB, level); err != nil {
		log.Warn().Err(err).Msg("persistent log disabled")
	}
	defer log.Close()

	addr := cfg.ListenAddr
	if c.IsSet("listen") {
		addr = c.String("listen")
	}

	var st *store.Store
	if !c.Bool("no-store") {
		st, err = store.Open(appdir.Path(cfg.StorePath), cfg.CompressSnapshots)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	reg := registry.New(bufferOptions(cfg)...)
	defer reg.Close()
	server := api.New(reg, st)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %s, shutting down gracefully...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", addr).Int("max_capacity", cfg.MaxCapacity).Bool("snapshots", st != nil).Msg("starting")
	return server.Start(addr)
}
