package ports

import (
	"context"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

// TransferProvider obtiene el historial de transferencias de una wallet,
// ya normalizado a domain.TransferEvent. Lo implementan tanto el source
// primario (Helius) como el fallback (replay directo por RPC).
type TransferProvider interface {
	// ListTransfers devuelve los eventos de transferencia de la wallet.
	// Un registro malformado se salta, no es fatal; un source caído sí
	// devuelve error para que el reconstructor pueda hacer fallback.
	ListTransfers(ctx context.Context, wallet string) ([]domain.TransferEvent, error)
}
