package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/soltrack/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel = openai.GPT4oMini

	systemPrompt = "You are a trading performance analyst. Given wallet trading " +
		"data, provide 2-3 actionable insights about patterns, risks, or " +
		"improvements. Be specific and concise. Plain text, no markdown."

	maxTradesInPrompt = 20
)

// OpenAI implementa ports.InsightGenerator contra la Chat Completions API.
// El contrato del port manda: si el LLM falla por lo que sea, se devuelve
// la narrativa local de fallback — el caller nunca se queda sin texto.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI crea el generador. Con apiKey vacía devuelve nil: el caller
// usa entonces el generador local puro (NewLocal).
func NewOpenAI(apiKey, model string) *OpenAI {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = defaultModel
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}
}

// GenerateInsight pide la narrativa al LLM, con failover al template local.
func (o *OpenAI) GenerateInsight(ctx context.Context, trades []domain.Trade, summary domain.MetricsSummary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   400,
		Temperature: 0.4,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(trades, summary)},
		},
	})
	if err != nil {
		slog.Warn("llm insight failed, using local fallback", "err", err)
		return FallbackInsight(summary), nil
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		slog.Warn("llm returned empty insight, using local fallback")
		return FallbackInsight(summary), nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt serializa métricas y trades recientes en texto compacto.
// Las fracciones se mandan ya como porcentaje: los LLM las leen mejor así
// y esto ES una capa de presentación.
func buildPrompt(trades []domain.Trade, summary domain.MetricsSummary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Metrics: trades=%d totalPnL=%.2f winRate=%.1f%% maxDrawdown=%.1f%% "+
		"feeImpact=%.1f%% longShort=%.1f%% avgWin=%.2f avgLoss=%.2f volume=%.2f\n",
		summary.TradeCount, summary.TotalPnL,
		summary.WinRate*100, summary.MaxDrawdown*100,
		summary.FeeImpact*100, summary.LongShortRatio*100,
		summary.AvgWin, summary.AvgLoss, summary.TotalVolume,
	)

	sb.WriteString("Recent trades (symbol action size pnl fee):\n")
	start := 0
	if len(trades) > maxTradesInPrompt {
		start = len(trades) - maxTradesInPrompt
	}
	for _, t := range trades[start:] {
		fmt.Fprintf(&sb, "%s %s %.4f %.2f %.4f\n", t.Symbol, t.Action, t.Size, t.PnL, t.Fee)
	}
	return sb.String()
}
