package analyzer

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/soltrack/internal/domain"
	"github.com/alejandrodnm/soltrack/internal/ports"
)

// priceResolver resuelve precios USD con granularidad diaria, pasando por
// la cache antes de tocar el price source externo.
type priceResolver struct {
	provider ports.PriceProvider
	cache    ports.PriceCache
}

func newPriceResolver(provider ports.PriceProvider, cache ports.PriceCache) *priceResolver {
	return &priceResolver{provider: provider, cache: cache}
}

// resolve devuelve el precio unitario USD del activo en el día de `at`.
// Degrada a 0 en cualquier fallo: un precio irresoluble afecta solo a ese
// trade, nunca aborta el batch completo.
//
//   - stablecoins reconocidos → exactamente 1, sin lookup
//   - mint desconocido (sin id canónico) → 0
//   - cache hit → valor cacheado
//   - lookup OK → se cachea best-effort y se devuelve
func (p *priceResolver) resolve(ctx context.Context, assetID string, at time.Time) float64 {
	if domain.IsStable(assetID) {
		return 1
	}

	info, ok := domain.LookupAsset(assetID)
	if !ok {
		slog.Debug("asset without canonical id, price degraded to 0", "asset", assetID)
		return 0
	}

	day := at.UTC().Truncate(24 * time.Hour)

	if price, hit, err := p.cache.Get(ctx, assetID, day); err == nil && hit {
		return price
	} else if err != nil {
		slog.Warn("price cache read failed", "asset", assetID, "err", err)
	}

	price, err := p.provider.HistoricalPrice(ctx, info.CoinGeckoID, day)
	if err != nil {
		slog.Warn("historical price lookup failed, price degraded to 0",
			"asset", info.Symbol,
			"day", day.Format("2006-01-02"),
			"err", err,
		)
		return 0
	}
	if price < 0 {
		return 0
	}

	if err := p.cache.Set(ctx, assetID, day, price); err != nil {
		slog.Warn("price cache write failed", "asset", assetID, "err", err)
	}
	return price
}
