package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"dealradar/internal/config"
	"dealradar/internal/domain/entity"
	"dealradar/internal/domain/service/pricer"
	"dealradar/internal/domain/service/selector"
	"dealradar/internal/infrastructure/feed"
	"dealradar/internal/infrastructure/inference"
	"dealradar/internal/infrastructure/notifier"
	"dealradar/internal/infrastructure/persistence"
	"dealradar/internal/infrastructure/vectorstore"
	"dealradar/internal/server"
	"dealradar/internal/transport/bot"
	"dealradar/internal/worker"
	"dealradar/pkg/application/connectors"
	"dealradar/pkg/application/modules"
	"dealradar/pkg/contextx"
	"dealradar/pkg/httpx"
	"dealradar/pkg/logx"
	"dealradar/pkg/middlewarex"
)

const (
	appName         = "dealradar"
	appVersion      = "0.1.0"
	shutdownTimeout = 10 * time.Second
	logFieldMaxLen  = 4096
	oppsBuffer      = 100
)

func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err = db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	repo := persistence.NewOpportunityRepository(db)

	masker := logx.NewSensitiveDataMasker()

	llm, err := inference.NewClient(inference.Config{
		BaseURL:        cfg.Ollama.BaseURL,
		Model:          cfg.Ollama.Model,
		EmbeddingModel: cfg.Ollama.EmbeddingModel,
		Timeout:        cfg.Ollama.Timeout,
	}, &http.Client{
		Timeout: cfg.Ollama.Timeout,
		Transport: httpx.NewLoggingRoundTripper(
			httpx.NewAPIKeyRoundTripper(http.DefaultTransport, "Authorization", bearer(cfg.Ollama.APIKey)),
			httpx.WithSensitiveDataMasker(masker),
			httpx.WithLogFieldMaxLen(logFieldMaxLen),
		),
	})
	if err != nil {
		return fmt.Errorf("inference.NewClient: %w", err)
	}

	index := vectorstore.NewQdrant(vectorstore.QdrantConfig{
		URL:        cfg.Qdrant.URL,
		Collection: cfg.Qdrant.Collection,
		Model:      cfg.Ollama.EmbeddingModel,
	}, &http.Client{
		Timeout: cfg.Qdrant.Timeout,
		Transport: httpx.NewLoggingRoundTripper(
			httpx.NewAPIKeyRoundTripper(http.DefaultTransport, "api-key", cfg.Qdrant.APIKey),
			httpx.WithSensitiveDataMasker(masker),
			httpx.WithLogFieldMaxLen(logFieldMaxLen),
		),
	})

	// Refuse to start over an index built with a different embedding model.
	if err = index.Check(ctx, llm.EmbeddingModel(), cfg.Qdrant.VectorSize); err != nil {
		return fmt.Errorf("index.Check: %w", err)
	}

	oppsCh := make(chan entity.Opportunity, oppsBuffer)

	scanner := worker.NewDealScanner(
		feed.NewFetcher(cfg.Scanner.FeedURLs, cfg.Scanner.ItemsPerFeed),
		selector.New(llm).WithMaxDeals(cfg.Scanner.MaxDealsPerCycle),
		pricer.New(llm, index, llm),
		repo,
		oppsCh,
	).
		WithDiscountThreshold(cfg.Scanner.DiscountThreshold).
		WithScanInterval(cfg.Scanner.Interval).
		WithMaxParallelEstimates(cfg.Scanner.MaxParallelEstimates)

	if cfg.Bot.Enabled {
		alertBot, botErr := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if botErr != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", botErr)
		}

		if err = alertBot.SendText(ctx, "dealradar is starting"); err != nil {
			logger(ctx).Error("bot test message failed", logx.Error(err))
		}

		go func() {
			if err := alertBot.Run(ctx, oppsCh); err != nil && ctx.Err() == nil {
				logger(ctx).Error("notifier bot stopped", logx.Error(err))
			}
		}()

		adminID := cfg.Bot.AdminID
		if adminID == 0 {
			adminID = cfg.Bot.ChatID
		}

		adminBot, botErr := bot.New(ctx, cfg.Bot.Token, adminID, repo, scanner)
		if botErr != nil {
			return fmt.Errorf("bot.New: %w", botErr)
		}

		go func() {
			if err := adminBot.Run(ctx); err != nil && ctx.Err() == nil {
				logger(ctx).Error("admin bot stopped", logx.Error(err))
			}
		}()
	} else {
		go drainOpportunities(ctx, oppsCh)
	}

	if err = scanner.Start(ctx); err != nil {
		return fmt.Errorf("scanner.Start: %w", err)
	}

	router := chi.NewRouter()
	router.Use(
		middlewarex.Recovery,
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)
	server.NewServer(server.NewOpportunityServer(repo)).RegisterRoutes(router)

	g, gCtx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: shutdownTimeout}.Run(gCtx, g, &http.Server{
		Addr:              cfg.Server.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	})
	modules.MetricServer{ListenAddress: cfg.Server.PrometheusListenAddress}.Run(gCtx, g)
	modules.ProbeServer{
		Name:          appName,
		Version:       appVersion,
		ListenAddress: cfg.Server.ProbeListenAddress,
	}.Run(gCtx, g)

	return g.Wait()
}

// drainOpportunities keeps the pipeline moving when alerting is disabled.
func drainOpportunities(ctx context.Context, opps <-chan entity.Opportunity) {
	for {
		select {
		case <-ctx.Done():
			return
		case opp, ok := <-opps:
			if !ok {
				return
			}
			logger(ctx).Info("opportunity surfaced",
				"url", opp.Deal.URL,
				"price", opp.Deal.Price,
				"estimate", opp.Estimate,
				"discount", opp.Discount,
			)
		}
	}
}

func bearer(key string) string {
	if key == "" {
		return ""
	}
	return "Bearer " + key
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
