package domain

import "time"

// Report es el resultado completo de analizar una wallet: lo que consumen
// el notifier de consola y cualquier capa de presentación externa.
type Report struct {
	RunID       string // id único del análisis, correlaciona logs/insight
	Wallet      string
	GeneratedAt time.Time
	Filter      MetricsFilter
	Trades      []Trade // ya filtrados, EntryTime descendente
	Summary     MetricsSummary
	Sessions    SessionPerformance
	Daily       []DailyPerformance
	Hourly      []HourlyPerformance
	OrderTypes  OrderTypeStats
	Insight     string
	Notice      string // aviso no fatal (p.ej. ambos sources fallaron)
}
