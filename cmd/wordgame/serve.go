package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordgame/internal/daily"
	"github.com/robalobadob/wordgame/internal/db"
	"github.com/robalobadob/wordgame/internal/httpserver"
	"github.com/robalobadob/wordgame/internal/store"
)

const pruneInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}

	list, provider, err := loadWords(cfg, cfg.Words.RemoteURL != "")
	if err != nil {
		return err
	}

	srv := httpserver.New(httpserver.Deps{
		Config:   cfg,
		Sessions: store.NewMemoryStore(),
		Users:    store.NewSQL(conn),
		Daily:    daily.NewStore(conn),
		List:     list,
		Words:    provider,
	})
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Env).Msg("starting server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("got quit signal...")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})
	g.Go(func() error {
		t := time.NewTicker(pruneInterval)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-t.C:
				n, err := srv.Prune(gctx, now)
				if err != nil {
					log.Warn().Err(err).Msg("prune sessions")
					continue
				}
				if n > 0 {
					log.Debug().Int("dropped", n).Msg("pruned sessions")
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server gracefully shut down")
	return nil
}
