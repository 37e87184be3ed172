package domain

import "time"

// MetricsFilter restringe el conjunto de trades antes de la reducción.
// Zero value = sin filtro.
type MetricsFilter struct {
	Symbol string
	From   time.Time // inclusive, sobre EntryTime
	To     time.Time // inclusive, sobre ExitTime
}

// FilterTrades aplica el filtro y devuelve un slice nuevo.
func FilterTrades(trades []Trade, f MetricsFilter) []Trade {
	filtered := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if f.Symbol != "" && t.Symbol != f.Symbol {
			continue
		}
		if !f.From.IsZero() && t.EntryTime.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && t.ExitTime.After(f.To) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// FeeComposition desglosa las fees del conjunto filtrado.
type FeeComposition struct {
	TotalFees       float64
	MarketOrderFees float64
	LimitOrderFees  float64
	FeeBySymbol     map[string]float64
	AvgFeePerTrade  float64
}

// MetricsSummary es la reducción completa de una secuencia de trades.
// Todas las métricas fraccionales van en 0..1 — la conversión a porcentaje
// vive EXCLUSIVAMENTE en la capa de presentación. Mezclar escalas fue la
// fuente clásica de bugs en este dominio.
type MetricsSummary struct {
	TradeCount       int
	TotalPnL         float64
	WinRate          float64 // 0..1
	MaxDrawdown      float64 // 0..1
	FeeImpact        float64 // 0..1 en condiciones normales: fees / ganancias brutas
	LongShortRatio   float64 // 0..1, fracción de trades long
	AvgTradeDuration time.Duration
	LargestGain      float64 // >= 0; 0 si ningún trade ganó
	LargestLoss      float64 // <= 0; 0 si ningún trade perdió
	AvgWin           float64
	AvgLoss          float64
	TotalVolume      float64
	EquityCurve      []float64 // acumulado de PnL, sembrado con 0
	Fees             FeeComposition
}

// ComputeMetrics reduce los trades a un MetricsSummary. Función pura:
// input vacío produce el resumen zero-value (con curva [0]), nunca error.
func ComputeMetrics(trades []Trade) MetricsSummary {
	summary := MetricsSummary{
		TradeCount:  len(trades),
		EquityCurve: EquityCurve(trades),
		Fees:        feeComposition(trades),
	}
	summary.MaxDrawdown = MaxDrawdown(summary.EquityCurve)

	if len(trades) == 0 {
		return summary
	}

	var wins, longs int
	var sumWins, sumLosses, grossProfit float64
	var totalDuration time.Duration

	for _, t := range trades {
		summary.TotalPnL += t.PnL
		summary.TotalVolume += t.Size
		totalDuration += t.Duration()

		if t.IsLong {
			longs++
		}
		switch {
		case t.PnL > 0:
			wins++
			sumWins += t.PnL
			grossProfit += t.PnL
		case t.PnL < 0:
			sumLosses += t.PnL
		}
		if t.PnL > summary.LargestGain {
			summary.LargestGain = t.PnL
		}
		if t.PnL < summary.LargestLoss {
			summary.LargestLoss = t.PnL
		}
	}

	n := float64(len(trades))
	summary.WinRate = float64(wins) / n
	summary.LongShortRatio = float64(longs) / n
	summary.AvgTradeDuration = totalDuration / time.Duration(len(trades))

	if wins > 0 {
		summary.AvgWin = sumWins / float64(wins)
	}
	if losses := len(trades) - wins - countZeroPnL(trades); losses > 0 {
		summary.AvgLoss = sumLosses / float64(losses)
	}
	if grossProfit > 0 {
		summary.FeeImpact = summary.Fees.TotalFees / grossProfit
	}

	return summary
}

// EquityCurve devuelve el acumulado de PnL en orden de llegada, con un 0
// inicial: la curva de N trades tiene N+1 puntos.
func EquityCurve(trades []Trade) []float64 {
	curve := make([]float64, 0, len(trades)+1)
	curve = append(curve, 0)
	running := 0.0
	for _, t := range trades {
		running += t.PnL
		curve = append(curve, running)
	}
	return curve
}

// MaxDrawdown devuelve la máxima caída pico-a-valle como fracción del pico
// (0..1). Los puntos con pico <= 0 se saltan — no hay división por picos no
// positivos. Curva vacía → 0. Invariante bajo escalado positivo del PnL.
func MaxDrawdown(curve []float64) float64 {
	if len(curve) == 0 {
		return 0
	}
	peak := curve[0]
	maxDD := 0.0
	for _, v := range curve {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - v) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// feeComposition acumula el desglose de fees del conjunto dado.
func feeComposition(trades []Trade) FeeComposition {
	fc := FeeComposition{FeeBySymbol: make(map[string]float64)}
	for _, t := range trades {
		fc.TotalFees += t.Fee
		fc.FeeBySymbol[t.Symbol] += t.Fee
		switch t.OrderType {
		case OrderLimit:
			fc.LimitOrderFees += t.Fee
		default:
			fc.MarketOrderFees += t.Fee
		}
	}
	if len(trades) > 0 {
		fc.AvgFeePerTrade = fc.TotalFees / float64(len(trades))
	}
	return fc
}

// countZeroPnL cuenta los trades con PnL exactamente 0 (swaps balanceados).
// No son ni win ni loss, y no deben entrar en el denominador de AvgLoss.
func countZeroPnL(trades []Trade) int {
	count := 0
	for _, t := range trades {
		if t.PnL == 0 {
			count++
		}
	}
	return count
}
