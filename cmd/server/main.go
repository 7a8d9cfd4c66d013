package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/eventrec/config"
	"github.com/rushteam/eventrec/core"
	"github.com/rushteam/eventrec/engine"
	"github.com/rushteam/eventrec/feature"
	"github.com/rushteam/eventrec/pipeline"
	"github.com/rushteam/eventrec/seeds"
	"github.com/rushteam/eventrec/server"
	"github.com/rushteam/eventrec/store"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config failed")
	}

	// ------------ Store ---------------
	var st core.Store
	if cfg.Redis.Addr != "" {
		st, err = store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis failed")
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	} else {
		st = store.NewMemoryStore()
		logger.Info().Msg("using in-memory store")
	}
	defer st.Close()

	// ------------ Engine ---------------
	opts := []engine.Option{
		engine.WithStore(st),
		engine.WithCacheTTL(cfg.CacheTTL),
		engine.WithCollabWeight(cfg.CollabWeight),
	}

	if cfg.Feast.Host != "" {
		fp, err := feature.NewFeastProvider(cfg.Feast.Host, cfg.Feast.Port, cfg.Feast.Project, cfg.Feast.Features)
		if err != nil {
			logger.Fatal().Err(err).Str("host", cfg.Feast.Host).Msg("connect feast failed")
		}
		defer fp.Close()
		opts = append(opts, engine.WithFeatureProvider(fp))
		logger.Info().Str("host", cfg.Feast.Host).Strs("features", cfg.Feast.Features).Msg("feast features enabled")
	}

	// filter.seen 的 Lookup 延迟绑定：Pipeline 在引擎构造前解析，
	// 但节点只在请求期执行，此时 eng 已就绪。
	var eng *engine.Engine
	if cfg.PipelineFile != "" {
		factory := config.NewNodeFactory(config.WithSeenLookup(func(userID string) map[string]struct{} {
			if eng == nil {
				return nil
			}
			return eng.Seen(userID)
		}))
		p, err := loadPipeline(cfg.PipelineFile, factory)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.PipelineFile).Msg("load pipeline failed")
		}
		opts = append(opts, engine.WithPostPipeline(p))
	}
	eng = engine.New(opts...)

	// ------------ Seed & Fit ---------------
	events, interactions := seeds.NewGenerator(cfg.Seed).Generate()
	start := time.Now()
	if err := eng.Fit(interactions, events); err != nil {
		logger.Fatal().Err(err).Msg("fit failed")
	}
	logger.Info().
		Int("events", len(events)).
		Int("interactions", len(interactions)).
		Dur("took", time.Since(start)).
		Msg("models fitted")

	// ------------ HTTP Server ---------------
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(eng, logger).Router(),
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func loadPipeline(path string, factory *pipeline.NodeFactory) (*pipeline.Pipeline, error) {
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		return nil, err
	}
	return cfg.BuildPipeline(factory)
}
