package insight

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

func TestFallbackInsight_EmptySummary(t *testing.T) {
	got := FallbackInsight(domain.MetricsSummary{})
	assert.Equal(t, "No trades found for this wallet in the selected range.", got)
}

func TestFallbackInsight_BasicNarrative(t *testing.T) {
	s := domain.MetricsSummary{
		TradeCount:  10,
		TotalPnL:    123.45,
		WinRate:     0.6,
		MaxDrawdown: 0.12,
	}

	got := FallbackInsight(s)

	assert.Contains(t, got, "10 trades")
	assert.Contains(t, got, "$123.45")
	assert.Contains(t, got, "60%")
	assert.Contains(t, got, "12%")
	assert.NotContains(t, got, "aggressive", "drawdown bajo no dispara el aviso")
}

func TestFallbackInsight_HighFeeImpact(t *testing.T) {
	s := domain.MetricsSummary{
		TradeCount: 5,
		FeeImpact:  0.3,
		Fees:       domain.FeeComposition{TotalFees: 12},
	}

	got := FallbackInsight(s)
	assert.Contains(t, got, "consider fewer, larger trades")
}

func TestFallbackInsight_HighDrawdownWarning(t *testing.T) {
	s := domain.MetricsSummary{TradeCount: 5, MaxDrawdown: 0.45}

	got := FallbackInsight(s)
	assert.Contains(t, got, "position sizing is too aggressive")
}

func TestFallbackInsight_WinnersOutsizeLosers(t *testing.T) {
	s := domain.MetricsSummary{
		TradeCount: 8,
		WinRate:    0.4,
		AvgWin:     50,
		AvgLoss:    -20,
	}

	got := FallbackInsight(s)
	assert.Contains(t, got, "Winners outsize losers")
}

func TestLocal_GenerateInsight(t *testing.T) {
	l := NewLocal()
	s := domain.MetricsSummary{TradeCount: 3, TotalPnL: 10}

	got, err := l.GenerateInsight(context.Background(), nil, s)

	require.NoError(t, err)
	assert.Equal(t, FallbackInsight(s), got)
}
