package ports

import (
	"context"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

// Notifier presenta el reporte de análisis al usuario.
type Notifier interface {
	// Notify muestra el reporte. En la implementación de consola imprime
	// tablas formateadas; aquí es donde las fracciones se convierten a %.
	Notify(ctx context.Context, report domain.Report) error
}
