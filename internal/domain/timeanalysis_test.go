package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradeAt(hour int, pnl float64) Trade {
	ts := time.Date(2025, 6, 15, hour, 30, 0, 0, time.UTC)
	return Trade{EntryTime: ts, ExitTime: ts, PnL: pnl, OrderType: OrderMarket}
}

func TestSessionBreakdown_Boundaries(t *testing.T) {
	trades := []Trade{
		tradeAt(0, 1),  // Asia
		tradeAt(7, 2),  // Asia (última hora)
		tradeAt(8, 3),  // Londres (primera hora)
		tradeAt(15, 4), // Londres
		tradeAt(16, 5), // Nueva York (primera hora)
		tradeAt(23, 6), // Nueva York
	}

	sp := SessionBreakdown(trades)

	assert.Equal(t, 2, sp.Asian.TradeCount)
	assert.InDelta(t, 3.0, sp.Asian.PnL, 1e-9)
	assert.Equal(t, 2, sp.London.TradeCount)
	assert.InDelta(t, 7.0, sp.London.PnL, 1e-9)
	assert.Equal(t, 2, sp.NewYork.TradeCount)
	assert.InDelta(t, 11.0, sp.NewYork.PnL, 1e-9)

	assert.Equal(t, "asian", sessionOf(trades[1].EntryTime))
	assert.Equal(t, "london", sessionOf(trades[2].EntryTime))
	assert.Equal(t, "newyork", sessionOf(trades[4].EntryTime))
}

func TestDailyBreakdown(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	trades := []Trade{
		{EntryTime: day2, PnL: 7},
		{EntryTime: day1, PnL: 3},
		{EntryTime: day1, PnL: -1},
	}

	daily := DailyBreakdown(trades)

	require.Len(t, daily, 2)
	// Ordenado por fecha ascendente
	assert.Equal(t, "2025-06-01", daily[0].Date)
	assert.InDelta(t, 2.0, daily[0].PnL, 1e-9)
	assert.Equal(t, 2, daily[0].TradeCount)
	assert.Equal(t, "2025-06-02", daily[1].Date)
}

func TestHourlyBreakdown_AveragesPerHour(t *testing.T) {
	trades := []Trade{
		tradeAt(9, 10),
		tradeAt(9, 20),
		tradeAt(14, -5),
	}

	hourly := HourlyBreakdown(trades)

	require.Len(t, hourly, 2)
	assert.Equal(t, 9, hourly[0].Hour)
	assert.InDelta(t, 15.0, hourly[0].AvgPnL, 1e-9)
	assert.Equal(t, 2, hourly[0].TradeCount)
	assert.Equal(t, 14, hourly[1].Hour)
}

func TestOrderTypeBreakdown(t *testing.T) {
	trades := []Trade{
		{OrderType: OrderMarket, PnL: 10},
		{OrderType: OrderMarket, PnL: -4},
		{OrderType: OrderLimit, PnL: 6},
	}

	stats := OrderTypeBreakdown(trades)

	assert.Equal(t, 2, stats.Market.Count)
	assert.InDelta(t, 3.0, stats.Market.AvgPnL, 1e-9)
	assert.Equal(t, 1, stats.Limit.Count)
	assert.InDelta(t, 6.0, stats.Limit.AvgPnL, 1e-9)
}
