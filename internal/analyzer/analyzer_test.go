package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

// fakeNotifier captura los reportes entregados.
type fakeNotifier struct {
	reports []domain.Report
}

func (f *fakeNotifier) Notify(_ context.Context, report domain.Report) error {
	f.reports = append(f.reports, report)
	return nil
}

// fakeInsight devuelve una narrativa fija y registra con qué se llamó.
type fakeInsight struct {
	text   string
	trades []domain.Trade
	calls  int
}

func (f *fakeInsight) GenerateInsight(_ context.Context, trades []domain.Trade, _ domain.MetricsSummary) (string, error) {
	f.calls++
	f.trades = trades
	return f.text, nil
}

func swapEvents(txID string, at time.Time, solOut, usdcIn float64) []domain.TransferEvent {
	return []domain.TransferEvent{
		{TxID: txID, AssetID: domain.MintSOL, Amount: -solOut, OccurredAt: at, FeeLamports: 5000},
		{TxID: txID, AssetID: mintUSDC, Amount: usdcIn, OccurredAt: at},
	}
}

func TestAnalyze_HappyPath(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	events := append(
		swapEvents("t1", day1, 2, 200),
		swapEvents("t2", day2, 1, 120)...,
	)
	primary := &fakeTransfers{events: events}
	prices := &fakePrices{prices: map[string]float64{"solana": 100}}
	recon := newTestReconstructor(primary, nil, prices)
	ins := &fakeInsight{text: "steady grind"}

	a := New(Config{Insight: true}, recon, ins, &fakeNotifier{})
	report, err := a.Analyze(context.Background(), "wallet1")

	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "wallet1", report.Wallet)
	assert.Empty(t, report.Notice)
	require.Len(t, report.Trades, 2)

	// El reporte va descendente; las métricas se calculan en cronológico.
	assert.Equal(t, "t2", report.Trades[0].ID)
	assert.Equal(t, "t1", report.Trades[1].ID)
	require.Len(t, ins.trades, 2)
	assert.Equal(t, "t1", ins.trades[0].ID)

	assert.Equal(t, 2, report.Summary.TradeCount)
	assert.Equal(t, "steady grind", report.Insight)
	require.Len(t, report.Daily, 2)
	assert.Equal(t, "2025-06-01", report.Daily[0].Date)
}

func TestAnalyze_BothSourcesDownIsNonFatal(t *testing.T) {
	primary := &fakeTransfers{err: errors.New("helius down")}
	fallback := &fakeTransfers{err: errors.New("rpc down")}
	recon := newTestReconstructor(primary, fallback, &fakePrices{})

	a := New(Config{}, recon, nil, &fakeNotifier{})
	report, err := a.Analyze(context.Background(), "wallet1")

	require.NoError(t, err, "el doble fallo degrada, no aborta")
	assert.NotEmpty(t, report.Notice)
	assert.Empty(t, report.Trades)
	assert.Zero(t, report.Summary.TradeCount)
}

func TestAnalyze_FilterApplied(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	events := append(
		swapEvents("t1", day1, 2, 200),
		swapEvents("t2", day2, 1, 120)...,
	)
	primary := &fakeTransfers{events: events}
	recon := newTestReconstructor(primary, nil, &fakePrices{prices: map[string]float64{"solana": 100}})

	cfg := Config{Filter: domain.MetricsFilter{From: day2}}
	a := New(cfg, recon, nil, &fakeNotifier{})
	report, err := a.Analyze(context.Background(), "wallet1")

	require.NoError(t, err)
	require.Len(t, report.Trades, 1)
	assert.Equal(t, "t2", report.Trades[0].ID)
}

func TestAnalyze_InsightDisabled(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	primary := &fakeTransfers{events: swapEvents("t1", day1, 2, 200)}
	recon := newTestReconstructor(primary, nil, &fakePrices{prices: map[string]float64{"solana": 100}})
	ins := &fakeInsight{text: "should not appear"}

	a := New(Config{Insight: false}, recon, ins, &fakeNotifier{})
	report, err := a.Analyze(context.Background(), "wallet1")

	require.NoError(t, err)
	assert.Empty(t, report.Insight)
	assert.Zero(t, ins.calls)
}

func TestRun_SingleCycleDeliversReport(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	primary := &fakeTransfers{events: swapEvents("t1", day1, 2, 200)}
	recon := newTestReconstructor(primary, nil, &fakePrices{prices: map[string]float64{"solana": 100}})
	notifier := &fakeNotifier{}

	a := New(Config{}, recon, nil, notifier)
	err := a.Run(context.Background(), "wallet1")

	require.NoError(t, err)
	require.Len(t, notifier.reports, 1)
	assert.Len(t, notifier.reports[0].Trades, 1)
}

func TestRun_WatchStopsOnContextCancel(t *testing.T) {
	primary := &fakeTransfers{}
	fallback := &fakeTransfers{}
	recon := newTestReconstructor(primary, fallback, &fakePrices{})
	notifier := &fakeNotifier{}

	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{Watch: true, WatchInterval: 10 * time.Millisecond}
	a := New(cfg, recon, nil, notifier)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, "wallet1") }()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}

	assert.GreaterOrEqual(t, len(notifier.reports), 2, "el loop repitió ciclos")
	assert.GreaterOrEqual(t, primary.calls, 2)
}
