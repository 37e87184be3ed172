package domain

import "time"

// Acciones posibles de un Trade.
const (
	ActionSwap    = "swap"
	ActionReceive = "receive"
	ActionSend    = "send"
)

// Tipos de orden. Helius no expone señal de tipo de orden para swaps,
// así que todo trade reconstruido sale como market.
const (
	OrderMarket = "market"
	OrderLimit  = "limit"
)

// Trade es un trade sintético derivado de una transacción on-chain.
// Inmutable una vez emitido por el reconstructor.
type Trade struct {
	ID         string  // txID, más sufijo -N si la tx emite varios trades
	Symbol     string  // "{recibido}/{enviado}" para swaps, "SOL/USD" para transfers
	Action     string  // swap | receive | send
	IsLong     bool    // true si el cambio de valor USD de la posición es positivo
	EntryPrice float64 // precio unitario USD del leg de entrada (enviado)
	ExitPrice  float64 // precio unitario USD del leg de salida (recibido)
	Size       float64 // cantidad del leg de mayor valor USD (entrada si empatan)
	Fee        float64 // fee en USD, siempre >= 0; solo el primer trade de la tx la carga
	PnL        float64 // exitValueUSD - entryValueUSD
	EntryTime  time.Time
	ExitTime   time.Time // igual a EntryTime: sin heurística de holding
	OrderType  string
}

// Duration devuelve la duración del trade.
func (t Trade) Duration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}
