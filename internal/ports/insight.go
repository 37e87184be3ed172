package ports

import (
	"context"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

// InsightGenerator produce el resumen narrativo sobre trades y métricas.
// El contrato es que NUNCA deja al caller sin texto: si el LLM falla, la
// implementación devuelve una narrativa local generada por template.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, trades []domain.Trade, summary domain.MetricsSummary) (string, error)
}
