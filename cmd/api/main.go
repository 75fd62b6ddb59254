package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/communitydao/budget-backend/api/routes"
	"github.com/communitydao/budget-backend/internal/governance"
	"github.com/communitydao/budget-backend/internal/proposals"
	"github.com/communitydao/budget-backend/internal/votes"
	"github.com/communitydao/budget-backend/pkg/config"
	"github.com/communitydao/budget-backend/pkg/logger"
	"github.com/communitydao/budget-backend/pkg/metrics"
	"github.com/communitydao/budget-backend/pkg/redis"
	"github.com/communitydao/budget-backend/pkg/sponsor"
	"github.com/communitydao/budget-backend/pkg/sui"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// no transaction can be signed without the operator key: fail fast
	keypair, err := sui.LoadKeypair(cfg.Sui.SponsorKey)
	if err != nil {
		logg.Error(context.Background(), "failed to load operator key", err)
		os.Exit(1)
	}

	chainClient, err := sui.NewClient(cfg.Sui, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create chain client", err)
		os.Exit(1)
	}

	builder, err := governance.NewBuilder(cfg.Sui.PackageID)
	if err != nil {
		logg.Error(context.Background(), "invalid package id", err)
		os.Exit(1)
	}

	submissionMetrics := metrics.NewSubmissionMetrics(prometheus.DefaultRegisterer)

	var submitter governance.Submitter
	if cfg.App.Sponsored() {
		sponsorClient, err := sponsor.NewClient(cfg.Sponsor, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create sponsor client", err)
			os.Exit(1)
		}
		submitter = governance.NewSponsoredSubmitter(
			chainClient, sponsorClient, keypair,
			cfg.Sponsor.PollAttempts, cfg.Sponsor.PollDelay,
			submissionMetrics, logg,
		)
	} else {
		submitter = governance.NewDirectSubmitter(chainClient, keypair, cfg.Sui.GasBudget, submissionMetrics, logg)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	governanceService := governance.NewService(chainClient, submitter, builder, cfg.Sui.PackageID, logg)
	proposalsService := proposals.NewService(chainClient, governanceService, cfg.Sui.PackageID, logg)
	voteMarkers := votes.NewService(redisClient, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":         cfg.App.Env,
		"addr":        addr,
		"submit_mode": cfg.App.SubmitMode,
		"operator":    keypair.Address(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, governanceService, proposalsService, voteMarkers),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
