package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

// Local implementa ports.InsightGenerator sin LLM: siempre devuelve la
// narrativa de template. Es el generador por defecto cuando no hay API key,
// y el doble de tests.
type Local struct{}

// NewLocal crea el generador local.
func NewLocal() *Local {
	return &Local{}
}

// GenerateInsight devuelve la narrativa determinista construida del resumen.
func (l *Local) GenerateInsight(_ context.Context, _ []domain.Trade, summary domain.MetricsSummary) (string, error) {
	return FallbackInsight(summary), nil
}

// FallbackInsight construye una narrativa local a partir del resumen.
// Determinista y sin red: es lo que ve el usuario cuando el LLM no está
// disponible, así que tiene que sostenerse sola.
func FallbackInsight(summary domain.MetricsSummary) string {
	if summary.TradeCount == 0 {
		return "No trades found for this wallet in the selected range."
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Analyzed %d trades with a net PnL of $%.2f. ",
		summary.TradeCount, summary.TotalPnL)
	fmt.Fprintf(&sb, "Win rate was %.0f%% with a maximum drawdown of %.0f%%. ",
		summary.WinRate*100, summary.MaxDrawdown*100)

	switch {
	case summary.FeeImpact >= 0.25:
		fmt.Fprintf(&sb, "Fees consumed %.0f%% of gross profits — consider fewer, larger trades. ",
			summary.FeeImpact*100)
	case summary.Fees.TotalFees > 0:
		fmt.Fprintf(&sb, "Fee impact was moderate at %.1f%% of gross profits. ",
			summary.FeeImpact*100)
	}

	if summary.MaxDrawdown >= 0.3 {
		sb.WriteString("Drawdown above 30% suggests position sizing is too aggressive. ")
	}
	if summary.WinRate < 0.5 && summary.AvgWin > 0 && summary.AvgLoss < 0 && summary.AvgWin > -summary.AvgLoss {
		sb.WriteString("Winners outsize losers despite the sub-50% hit rate, which keeps the strategy viable. ")
	}

	return strings.TrimSpace(sb.String())
}
