package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/skillswap/skillswap-hub/config"
	"github.com/skillswap/skillswap-hub/internal/application/command"
	"github.com/skillswap/skillswap-hub/internal/application/query"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	httpapi "github.com/skillswap/skillswap-hub/internal/interface/http"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP port")
	if err := v.BindPFlag("http.port", serveCmd.Flags().Lookup("port")); err != nil {
		panic(fmt.Sprintf("bind flag port: %v", err))
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЛОГИРОВАНИЕ
	// ─────────────────────────────────────────────────────────────────────────
	log := newLogger(cfg, os.Stdout)
	defer func() { _ = log.Sync() }()

	log.Info("starting SkillSwap Hub",
		logger.String("version", cfg.App.Version),
		logger.Bool("demo", cfg.App.Demo),
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────────
	// 2. ХРАНИЛИЩЕ И ИНФРАСТРУКТУРА
	// ─────────────────────────────────────────────────────────────────────────
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 3. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	server := httpapi.NewServer(serverConfig(cfg), dependencies(a))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		log.Info("starting graceful shutdown", logger.Duration("timeout", cfg.App.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("shutdown completed successfully", logger.Any("events", a.bus.Metrics()))
	return nil
}

func serverConfig(cfg *config.Config) httpapi.Config {
	sc := httpapi.DefaultConfig()
	sc.Host = cfg.HTTP.Host
	sc.Port = cfg.HTTP.Port
	sc.ReadTimeout = cfg.HTTP.ReadTimeout
	sc.WriteTimeout = cfg.HTTP.WriteTimeout
	sc.IdleTimeout = cfg.HTTP.IdleTimeout
	sc.AllowedOrigins = cfg.HTTP.AllowedOrigins()
	sc.EnableCORS = len(sc.AllowedOrigins) > 0
	sc.RateLimitPerMinute = cfg.HTTP.RateLimit
	sc.Version = cfg.App.Version
	return sc
}

func dependencies(a *app) httpapi.Dependencies {
	scorer := matching.NewScorer(nil)
	opts := command.Options{Publisher: a.publisher()}

	return httpapi.Dependencies{
		GetProfile:    query.NewGetProfileHandler(a.profiles),
		FindPartners:  query.NewFindPartnersHandler(a.profiles, a.relationships, scorer),
		ListMatches:   query.NewListMatchesHandler(a.profiles, a.relationships, a.messages),
		ListMessages:  query.NewListMessagesHandler(a.relationships, a.messages),
		ProposeMatch:  command.NewProposeMatchHandler(a.profiles, a.relationships, scorer, opts),
		RespondMatch:  command.NewRespondMatchHandler(a.relationships, opts),
		RemoveMatch:   command.NewRemoveMatchHandler(a.relationships, opts),
		SendMessage:   command.NewSendMessageHandler(a.relationships, a.messages, opts),
		Logger:        a.log,
		HealthChecker: a.health,
	}
}
