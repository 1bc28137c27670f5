package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/simglobe/simglobe/internal/config"
	"github.com/simglobe/simglobe/internal/db"
	"github.com/simglobe/simglobe/internal/db/memory"
	dbRedis "github.com/simglobe/simglobe/internal/db/redis"
	"github.com/simglobe/simglobe/internal/domain/market"
	"github.com/simglobe/simglobe/internal/metrics"
	budgetrepo "github.com/simglobe/simglobe/internal/repository/budget"
	"github.com/simglobe/simglobe/internal/repository/cache"
	txrepo "github.com/simglobe/simglobe/internal/repository/transaction"
	chiTransport "github.com/simglobe/simglobe/internal/transport/chi"
	"github.com/simglobe/simglobe/internal/transport/gemini"
	openaiChat "github.com/simglobe/simglobe/internal/transport/openai"
	"github.com/simglobe/simglobe/internal/transport/polymarket"
	"github.com/simglobe/simglobe/internal/transport/solanapay"
	analysisuc "github.com/simglobe/simglobe/internal/usecase/analysis"
	briefinguc "github.com/simglobe/simglobe/internal/usecase/briefing"
	healthuc "github.com/simglobe/simglobe/internal/usecase/health"
	hedginguc "github.com/simglobe/simglobe/internal/usecase/hedging"
	productsuc "github.com/simglobe/simglobe/internal/usecase/products"
	"github.com/simglobe/simglobe/internal/usecase/relevance"
	risksuc "github.com/simglobe/simglobe/internal/usecase/risks"
)

// app is the assembled API: the HTTP handler and the store it owns.
type app struct {
	store   db.Store
	handler http.Handler
}

// Close releases the cache store.
func (a *app) Close() {
	a.store.Close()
}

// buildApp is the composition root: providers, decorators, services and router.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	metrics.RegisterProviderMetrics()

	store, err := openStore(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, err
	}

	source, marketCheck := buildMarketSource(cfg.Market, logger)
	risksCache := cache.New[[]market.Snapshot](store, "risks",
		time.Duration(cfg.Cache.RisksTTLSec)*time.Second, metrics.CacheTotal, logger)
	risksSvc := risksuc.New(source, risksCache)

	analyst, analystCheck, usage, err := buildAnalyst(ctx, cfg.Analyst, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	analysisSvc := analysisuc.New(risksSvc, analyst)
	if usage != nil {
		analysisSvc.WithUsage(usage)
	}

	engine := relevance.New(relevance.Config{
		Weights: relevance.Weights{
			Keyword:  cfg.Engine.KeywordWeight,
			Category: cfg.Engine.CategoryWeight,
			Direct:   cfg.Engine.DirectWeight,
		},
		Hedge: relevance.HedgeBounds{Base: cfg.Engine.HedgeBase, Span: cfg.Engine.HedgeSpan},
	})
	productsSvc := productsuc.New(engine, risksSvc)

	hedgingSvc := hedginguc.New(txrepo.New(store), buildGateway(cfg.Payment, logger), productsSvc, hedginguc.Config{
		Expiry:       time.Duration(cfg.Payment.ExpiryMin) * time.Minute,
		ConfirmDelay: time.Duration(cfg.Payment.ConfirmDelaySec) * time.Second,
	})

	briefingCache := cache.New[briefinguc.Briefing](store, "briefing",
		time.Duration(cfg.Cache.BriefingTTLSec)*time.Second, metrics.CacheTotal, logger)
	briefingSvc := briefinguc.New(risksSvc, briefingCache)

	healthSvc := healthuc.New(store, marketCheck, analystCheck)

	server := chiTransport.NewServer(risksSvc, analysisSvc, productsSvc, hedgingSvc, briefingSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{CORSOrigins: cfg.HTTP.CORSOrigins}, logger)

	return &app{store: store, handler: handler}, nil
}

func openStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	switch cfg.Driver {
	case "redis":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Addrs))
		return store, nil
	default:
		store, err := memory.NewStore(memory.Config{MaxCost: cfg.MaxCostMB << 20})
		if err != nil {
			return nil, fmt.Errorf("create memory store: %w", err)
		}
		return store, nil
	}
}

// buildMarketSource returns the market source and, for the live provider, its health probe.
// The fake source never fails, so it has no probe.
func buildMarketSource(cfg config.MarketConfig, logger *zap.Logger) (risksuc.MarketSource, healthuc.Checker) {
	demo := polymarket.NewFake()
	if cfg.Provider != config.ProviderLive {
		return demo, nil
	}

	client := polymarket.NewClient(&polymarket.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
	})
	curated := risksuc.NewCurated(client, risksuc.Filter{
		Categories: cfg.RelevantCategories,
		Keywords:   cfg.RelevantKeywords,
	}, cfg.FetchLimit)
	source := risksuc.NewFallback(curated, demo, "polymarket", logger)
	return source, source
}

// buildAnalyst returns the analyst, the model health probe and its request budget.
// The demo analyst has neither probe nor budget.
func buildAnalyst(
	ctx context.Context, cfg config.AnalystConfig, store db.Store, logger *zap.Logger,
) (analysisuc.Analyst, healthuc.Checker, analysisuc.UsageReader, error) {
	var (
		gen     analysisuc.Generator
		checker healthuc.Checker
	)
	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := gemini.NewGenerator(ctx, &gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: timeout,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create gemini generator: %w", err)
		}
		gen, checker = g, g
	case config.ProviderOpenAI:
		g := openaiChat.NewGenerator(&openaiChat.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: config.ProviderOpenAI,
			Timeout:  timeout,
		})
		gen, checker = g, g
	default:
		return analysisuc.NewDemo(), nil, nil, nil
	}

	budget := analysisuc.NewBudget(cfg.Provider,
		cfg.Budget.DailyRequestLimit, cfg.Budget.MonthlyRequestLimit,
		analysisuc.BudgetAction(cfg.Budget.Action), logger,
	).WithStore(ctx, budgetrepo.New(store, 24*time.Hour))

	return analysisuc.NewLLM(gen, cfg.Provider, logger).WithBudget(budget), checker, budget, nil
}

func buildGateway(cfg config.PaymentConfig, logger *zap.Logger) hedginguc.PaymentGateway {
	demo := solanapay.NewDemo(cfg.QRSize)
	if cfg.Provider != config.ProviderSolanaPay {
		return demo
	}
	live := solanapay.NewGateway(&solanapay.Config{
		Recipient: cfg.Recipient,
		SPLToken:  cfg.SPLToken,
		QRSize:    cfg.QRSize,
	})
	return hedginguc.NewFallbackGateway(live, demo, config.ProviderSolanaPay, logger)
}
