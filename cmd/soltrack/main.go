package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/soltrack/config"
	"github.com/alejandrodnm/soltrack/internal/adapters/coingecko"
	"github.com/alejandrodnm/soltrack/internal/adapters/helius"
	"github.com/alejandrodnm/soltrack/internal/adapters/insight"
	"github.com/alejandrodnm/soltrack/internal/adapters/notify"
	"github.com/alejandrodnm/soltrack/internal/adapters/pricecache"
	"github.com/alejandrodnm/soltrack/internal/adapters/solanarpc"
	"github.com/alejandrodnm/soltrack/internal/analyzer"
	"github.com/alejandrodnm/soltrack/internal/domain"
	"github.com/alejandrodnm/soltrack/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	wallet := flag.String("wallet", "", "wallet address to analyze (required)")
	watch := flag.Bool("watch", false, "re-analyze periodically instead of exiting")
	symbol := flag.String("symbol", "", "only include trades for this symbol (e.g. USDC/SOL)")
	from := flag.String("from", "", "only trades entered on/after this date (YYYY-MM-DD)")
	to := flag.String("to", "", "only trades exited on/before this date (YYYY-MM-DD)")
	table := flag.Bool("table", false, "print full report tables (default: compact 1-line)")
	noInsight := flag.Bool("no-insight", false, "skip the narrative summary")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	if *wallet == "" {
		slog.Error("missing required -wallet flag")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	filter, err := parseFilter(*symbol, *from, *to)
	if err != nil {
		slog.Error("invalid filter flags", "err", err)
		os.Exit(2)
	}

	slog.Info("soltrack starting",
		"wallet", *wallet,
		"watch", *watch,
		"interval", cfg.WatchInterval(),
	)

	cache, err := pricecache.Open(cfg.Cache.DSN)
	if err != nil {
		slog.Error("failed to open price cache", "err", err, "dsn", cfg.Cache.DSN)
		os.Exit(1)
	}
	defer cache.Close()

	primary := helius.NewClient(cfg.API.HeliusBase, cfg.API.HeliusAPIKey)
	fallback := solanarpc.NewClient(cfg.API.SolanaRPCURL)
	prices := coingecko.NewClient(cfg.API.CoinGeckoBase)
	recon := analyzer.NewReconstructor(primary, fallback, prices, cache)

	var generator ports.InsightGenerator
	if cfg.Insight.Enabled && !*noInsight {
		if llm := insight.NewOpenAI(cfg.Insight.OpenAIAPIKey, cfg.Insight.Model); llm != nil {
			generator = llm
		} else {
			slog.Debug("no OPENAI_API_KEY, using local insight generator")
			generator = insight.NewLocal()
		}
	}

	notifier := notify.NewConsole(*table)

	anCfg := analyzer.DefaultConfig()
	anCfg.WatchInterval = cfg.WatchInterval()
	anCfg.Filter = filter
	anCfg.Insight = generator != nil
	anCfg.Watch = *watch

	a := analyzer.New(anCfg, recon, generator, notifier)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.Run(ctx, *wallet); err != nil {
		slog.Error("analyzer exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("soltrack stopped cleanly")
}

// parseFilter construye el MetricsFilter desde los flags de CLI.
func parseFilter(symbol, from, to string) (domain.MetricsFilter, error) {
	filter := domain.MetricsFilter{Symbol: symbol}

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, err
		}
		filter.From = t.UTC()
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, err
		}
		// inclusivo: hasta el final del día
		filter.To = t.UTC().Add(24*time.Hour - time.Nanosecond)
	}
	return filter, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
