package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"orcafacil/internal"
	"orcafacil/internal/api"
	"orcafacil/internal/catalog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	resolver, err := a.resolver()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	if a.cfg.WatchCatalog && a.cfg.CatalogPath != "" {
		w, err := catalog.NewWatcher(a.cfg.CatalogPath, func(items []internal.CatalogItem) {
			if err := catalog.Save(ctx, a.kv, items); err != nil {
				log.Error().Err(err).Msg("save reloaded catalog")
				return
			}
			a.holder.Replace(catalog.NewSnapshot(items))
		})
		if err != nil {
			return err
		}
		startWorker(ctx, &wg, "catalog-watcher", func(ctx context.Context) {
			if err := w.Run(ctx); err != nil {
				log.Error().Err(err).Msg("catalog watcher stopped")
			}
		})
	}

	handler := api.NewHandler(resolver, a.cache, a.holder, a.kv, Version)
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", a.cfg.HTTPAddr).Int("catalogItems", a.holder.Current().Len()).Msg("server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	wg.Wait()

	log.Info().Msg("shutdown complete")
	return nil
}

func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("worker", name).Msg("worker started")
		fn(ctx)
		log.Info().Str("worker", name).Msg("worker stopped")
	}()
}
