package domain

import (
	"sort"
	"time"
)

// DailyPerformance agrega PnL y conteo por día calendario UTC.
type DailyPerformance struct {
	Date       string // "2006-01-02"
	PnL        float64
	TradeCount int
}

// SessionPerformance separa el PnL por sesión de trading (horas UTC):
// Asia 0-8, Londres 8-16, Nueva York 16-24.
type SessionPerformance struct {
	Asian   SessionStats
	London  SessionStats
	NewYork SessionStats
}

// SessionStats es el agregado de una sesión.
type SessionStats struct {
	PnL        float64
	TradeCount int
}

// HourlyPerformance es el PnL medio por hora UTC del día.
type HourlyPerformance struct {
	Hour       int
	AvgPnL     float64
	TradeCount int
}

// OrderTypeStats agrega conteo y PnL medio por tipo de orden.
type OrderTypeStats struct {
	Market OrderTypeBucket
	Limit  OrderTypeBucket
}

// OrderTypeBucket es el agregado de un tipo de orden.
type OrderTypeBucket struct {
	Count  int
	AvgPnL float64
}

// DailyBreakdown agrega los trades por día calendario UTC, ordenado por fecha.
func DailyBreakdown(trades []Trade) []DailyPerformance {
	byDay := make(map[string]*DailyPerformance)
	for _, t := range trades {
		day := t.EntryTime.UTC().Format("2006-01-02")
		dp, ok := byDay[day]
		if !ok {
			dp = &DailyPerformance{Date: day}
			byDay[day] = dp
		}
		dp.PnL += t.PnL
		dp.TradeCount++
	}

	out := make([]DailyPerformance, 0, len(byDay))
	for _, dp := range byDay {
		out = append(out, *dp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// SessionBreakdown separa los trades por sesión según la hora UTC de entrada.
func SessionBreakdown(trades []Trade) SessionPerformance {
	var sp SessionPerformance
	for _, t := range trades {
		hour := t.EntryTime.UTC().Hour()
		switch {
		case hour < 8:
			sp.Asian.PnL += t.PnL
			sp.Asian.TradeCount++
		case hour < 16:
			sp.London.PnL += t.PnL
			sp.London.TradeCount++
		default:
			sp.NewYork.PnL += t.PnL
			sp.NewYork.TradeCount++
		}
	}
	return sp
}

// HourlyBreakdown devuelve el PnL medio por hora UTC, solo horas con trades,
// ordenado por hora.
func HourlyBreakdown(trades []Trade) []HourlyPerformance {
	type bucket struct {
		pnl   float64
		count int
	}
	byHour := make(map[int]*bucket)
	for _, t := range trades {
		hour := t.EntryTime.UTC().Hour()
		b, ok := byHour[hour]
		if !ok {
			b = &bucket{}
			byHour[hour] = b
		}
		b.pnl += t.PnL
		b.count++
	}

	out := make([]HourlyPerformance, 0, len(byHour))
	for hour, b := range byHour {
		out = append(out, HourlyPerformance{
			Hour:       hour,
			AvgPnL:     b.pnl / float64(b.count),
			TradeCount: b.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// OrderTypeBreakdown agrega por tipo de orden.
func OrderTypeBreakdown(trades []Trade) OrderTypeStats {
	var stats OrderTypeStats
	var marketPnL, limitPnL float64
	for _, t := range trades {
		switch t.OrderType {
		case OrderLimit:
			stats.Limit.Count++
			limitPnL += t.PnL
		default:
			stats.Market.Count++
			marketPnL += t.PnL
		}
	}
	if stats.Market.Count > 0 {
		stats.Market.AvgPnL = marketPnL / float64(stats.Market.Count)
	}
	if stats.Limit.Count > 0 {
		stats.Limit.AvgPnL = limitPnL / float64(stats.Limit.Count)
	}
	return stats
}

// sessionOf es útil en tests: nombre de la sesión para una hora UTC.
func sessionOf(t time.Time) string {
	switch hour := t.UTC().Hour(); {
	case hour < 8:
		return "asian"
	case hour < 16:
		return "london"
	default:
		return "newyork"
	}
}
