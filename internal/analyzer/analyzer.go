package analyzer

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/alejandrodnm/soltrack/internal/domain"
	"github.com/alejandrodnm/soltrack/internal/ports"
	"github.com/google/uuid"
)

// Config contiene la configuración del analyzer.
type Config struct {
	WatchInterval time.Duration // intervalo entre ciclos en modo watch
	Filter        domain.MetricsFilter
	Insight       bool // pedir narrativa al InsightGenerator
	Watch         bool // loop continuo; false = un solo ciclo
}

// DefaultConfig devuelve una configuración sensata.
func DefaultConfig() Config {
	return Config{WatchInterval: 5 * time.Minute, Insight: true}
}

// Analyzer es el orquestador: reconstruye los trades de una wallet, reduce
// las métricas y entrega el reporte al notifier.
type Analyzer struct {
	cfg      Config
	recon    *Reconstructor
	insight  ports.InsightGenerator
	notifier ports.Notifier
}

// New crea un Analyzer con todas las dependencias inyectadas.
// insight puede ser nil si la narrativa está deshabilitada.
func New(cfg Config, recon *Reconstructor, insight ports.InsightGenerator, notifier ports.Notifier) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		recon:    recon,
		insight:  insight,
		notifier: notifier,
	}
}

// Run analiza la wallet; en modo watch repite cada WatchInterval hasta que
// el contexto se cancele. Un ciclo fallido en modo watch no tumba el loop.
func (a *Analyzer) Run(ctx context.Context, wallet string) error {
	if err := a.runCycle(ctx, wallet); err != nil {
		slog.Error("analysis cycle failed", "wallet", wallet, "err", err)
		if !a.cfg.Watch {
			return err
		}
	}

	if !a.cfg.Watch {
		return nil
	}

	ticker := time.NewTicker(a.cfg.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("analyzer stopped")
			return nil
		case <-ticker.C:
			if err := a.runCycle(ctx, wallet); err != nil {
				slog.Error("analysis cycle failed", "wallet", wallet, "err", err)
			}
		}
	}
}

// runCycle ejecuta un ciclo completo y entrega el reporte al notifier.
func (a *Analyzer) runCycle(ctx context.Context, wallet string) error {
	start := time.Now()

	report, err := a.Analyze(ctx, wallet)
	if err != nil {
		return err
	}

	if err := a.notifier.Notify(ctx, report); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	slog.Info("analysis complete",
		"run_id", report.RunID,
		"wallet", wallet,
		"trades", len(report.Trades),
		"total_pnl", report.Summary.TotalPnL,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Analyze ejecuta exactamente un análisis y devuelve el reporte.
//
// El fallo de ambos transfer sources NO es fatal: el reporte sale vacío con
// un Notice para que la capa de presentación muestre un aviso no bloqueante.
func (a *Analyzer) Analyze(ctx context.Context, wallet string) (domain.Report, error) {
	report := domain.Report{
		RunID:       uuid.NewString(),
		Wallet:      wallet,
		GeneratedAt: time.Now().UTC(),
		Filter:      a.cfg.Filter,
	}

	trades, err := a.recon.Reconstruct(ctx, wallet)
	if err != nil {
		report.Notice = "could not reconstruct trades from primary or fallback source"
		slog.Warn("reconstruction degraded to empty result", "wallet", wallet, "err", err)
	}

	filtered := domain.FilterTrades(trades, a.cfg.Filter)

	// Las reducciones dependientes del orden (equity curve, drawdown) van
	// en orden cronológico; el reporte conserva el orden descendente.
	chrono := chronological(filtered)
	report.Trades = filtered
	report.Summary = domain.ComputeMetrics(chrono)
	report.Sessions = domain.SessionBreakdown(chrono)
	report.Daily = domain.DailyBreakdown(chrono)
	report.Hourly = domain.HourlyBreakdown(chrono)
	report.OrderTypes = domain.OrderTypeBreakdown(chrono)

	if a.cfg.Insight && a.insight != nil {
		insight, insErr := a.insight.GenerateInsight(ctx, chrono, report.Summary)
		if insErr != nil {
			// El generador ya hace failover a template local; esto solo
			// puede ser cancelación de contexto.
			slog.Warn("insight generation skipped", "err", insErr)
		} else {
			report.Insight = insight
		}
	}

	return report, nil
}

// chronological devuelve una copia ordenada por EntryTime ascendente.
func chronological(trades []domain.Trade) []domain.Trade {
	out := make([]domain.Trade, len(trades))
	copy(out, trades)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EntryTime.Before(out[j].EntryTime)
	})
	return out
}
