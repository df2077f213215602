package main

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"orcafacil/internal/catalog"
	"orcafacil/internal/config"
	"orcafacil/internal/learned"
	"orcafacil/internal/matcher"
	"orcafacil/internal/pipeline"
	"orcafacil/internal/storage"
)

type app struct {
	cfg    config.Config
	kv     storage.KV
	cache  *learned.Cache
	holder *catalog.Holder
}

// openApp loads config and the stored catalog. With no stored catalog and a
// CATALOG_PATH set, the file is ingested first.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.LogLevel)

	kv, err := storage.OpenKV(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("driver", cfg.DBDriver).Msg("store opened")

	a := &app{cfg: cfg, kv: kv, cache: learned.New(kv), holder: catalog.NewHolder(nil)}

	snap, updatedAt, err := catalog.Load(ctx, kv)
	switch {
	case err == nil:
		a.holder.Replace(snap)
		log.Debug().Int("items", snap.Len()).Time("updatedAt", updatedAt).Msg("catalog loaded")
	case errors.Is(err, catalog.ErrNoCatalog):
		if cfg.CatalogPath != "" {
			if _, err := a.importCatalog(ctx, cfg.CatalogPath); err != nil {
				_ = kv.Close()
				return nil, err
			}
		}
	default:
		_ = kv.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}

func (a *app) importCatalog(ctx context.Context, path string) (int, error) {
	items, err := catalog.LoadFile(path)
	if err != nil {
		return 0, err
	}
	if err := catalog.Save(ctx, a.kv, items); err != nil {
		return 0, err
	}
	a.holder.Replace(catalog.NewSnapshot(items))
	log.Info().Str("path", path).Int("items", len(items)).Msg("catalog imported")
	return len(items), nil
}

func (a *app) resolver() (*pipeline.Resolver, error) {
	if err := a.cfg.Require("OPENAI_API_KEY", a.cfg.OpenAIAPIKey); err != nil {
		return nil, err
	}
	conv := pipeline.NewConversionEngine(nil)
	m := matcher.NewOpenAI(matcher.Options{
		APIKey:                 a.cfg.OpenAIAPIKey,
		BaseURL:                a.cfg.OpenAIBaseURL,
		Model:                  a.cfg.MatcherModel,
		MaxRetries:             a.cfg.MatcherMaxRetries,
		Timeout:                time.Duration(a.cfg.MatcherTimeoutMs) * time.Millisecond,
		RateLimitRPS:           a.cfg.MatcherRateLimitRPS,
		ConversionInstructions: conv.PromptInstructions(),
	})
	return pipeline.NewResolver(a.cache, m, conv), nil
}
