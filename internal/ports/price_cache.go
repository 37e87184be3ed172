package ports

import (
	"context"
	"time"
)

// PriceCache memoiza (assetID, día) → precio USD. Las entradas son hechos
// históricos inmutables: una vez escritas no se invalidan ni expiran.
// Se inyecta como colaborador con lifecycle explícito — los tests
// sustituyen una instancia en memoria.
type PriceCache interface {
	// Get devuelve el precio cacheado y si existe.
	Get(ctx context.Context, assetID string, day time.Time) (price float64, ok bool, err error)

	// Set persiste una entrada best-effort: un fallo de escritura se
	// loggea y se traga, nunca llega al caller.
	Set(ctx context.Context, assetID string, day time.Time, price float64) error

	// Close cierra el storage subyacente.
	Close() error
}
