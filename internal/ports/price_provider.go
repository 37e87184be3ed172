package ports

import (
	"context"
	"time"
)

// PriceProvider resuelve precios históricos USD con granularidad diaria.
type PriceProvider interface {
	// HistoricalPrice devuelve el precio unitario USD del activo en el día
	// dado. coinID es el id canónico del price source (no el mint) — el
	// mapeo mint → id canónico lo posee el reconstructor.
	HistoricalPrice(ctx context.Context, coinID string, day time.Time) (float64, error)
}
