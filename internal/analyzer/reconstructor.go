package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/alejandrodnm/soltrack/internal/domain"
	"github.com/alejandrodnm/soltrack/internal/ports"
)

// Reconstructor convierte el historial crudo de transferencias de una wallet
// en una secuencia de trades sintéticos con precios normalizados a USD.
//
// Es restartable: la misma entrada produce la misma salida (los precios
// históricos son inmutables una vez cacheados).
type Reconstructor struct {
	primary  ports.TransferProvider
	fallback ports.TransferProvider
	prices   *priceResolver
}

// NewReconstructor crea un Reconstructor con sus colaboradores inyectados.
// fallback puede ser nil si no hay source secundario configurado.
func NewReconstructor(primary, fallback ports.TransferProvider, provider ports.PriceProvider, cache ports.PriceCache) *Reconstructor {
	return &Reconstructor{
		primary:  primary,
		fallback: fallback,
		prices:   newPriceResolver(provider, cache),
	}
}

// Reconstruct obtiene los eventos de la wallet y emite sus trades, ordenados
// por EntryTime descendente (el más reciente primero).
//
// Si el source primario falla O devuelve vacío se intenta el fallback. Si
// ambos fallan devuelve secuencia vacía y el último error como condición no
// fatal — el caller decide si muestra un aviso.
func (r *Reconstructor) Reconstruct(ctx context.Context, wallet string) ([]domain.Trade, error) {
	events, err := r.primary.ListTransfers(ctx, wallet)
	if err != nil || len(events) == 0 {
		if err != nil {
			slog.Warn("primary transfer source failed, trying fallback", "err", err)
		} else {
			slog.Debug("primary transfer source returned no events, trying fallback")
		}

		if r.fallback == nil {
			return nil, err
		}

		fbEvents, fbErr := r.fallback.ListTransfers(ctx, wallet)
		if fbErr != nil {
			slog.Warn("fallback transfer source failed", "err", fbErr)
			return nil, fmt.Errorf("analyzer.Reconstruct: both sources failed: %w", fbErr)
		}
		events = fbEvents
	}

	return r.buildTrades(ctx, events), nil
}

// buildTrades agrupa los eventos por transacción y emite los trades de cada
// grupo, en orden determinista.
func (r *Reconstructor) buildTrades(ctx context.Context, events []domain.TransferEvent) []domain.Trade {
	groups := make(map[string][]domain.TransferEvent)
	order := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.TxID == "" {
			// Registro malformado: sin firma no hay agrupación posible.
			slog.Debug("skipping transfer event without tx id", "asset", ev.AssetID)
			continue
		}
		if _, seen := groups[ev.TxID]; !seen {
			order = append(order, ev.TxID)
		}
		groups[ev.TxID] = append(groups[ev.TxID], ev)
	}

	var trades []domain.Trade
	for _, txID := range order {
		trades = append(trades, r.tradesForTx(ctx, txID, groups[txID])...)
	}

	// Más reciente primero; el ID desempata para mantener orden estable.
	sort.SliceStable(trades, func(i, j int) bool {
		if !trades[i].EntryTime.Equal(trades[j].EntryTime) {
			return trades[i].EntryTime.After(trades[j].EntryTime)
		}
		return trades[i].ID < trades[j].ID
	})
	return trades
}

// tradesForTx clasifica el efecto neto de una transacción y emite cero o más
// trades. La fee de red completa va al PRIMER trade emitido, 0 al resto: una
// tx aporta exactamente un cargo de fee por muchos trades que produzca.
func (r *Reconstructor) tradesForTx(ctx context.Context, txID string, events []domain.TransferEvent) []domain.Trade {
	received, sent := domain.NetDeltas(events)
	if len(received) == 0 && len(sent) == 0 {
		return nil // neto cero: ruido (self-transfers, wrapping)
	}

	var trades []domain.Trade

	switch {
	case len(received) > 0 && len(sent) > 0:
		// Swap. Con varios activos por lado se emiten TODAS las
		// combinaciones (sent × received): aproximación heredada del
		// comportamiento original, puede sobrecontar volumen en swaps
		// multi-hop complejos.
		for _, out := range sent {
			for _, in := range received {
				trades = append(trades, r.swapTrade(ctx, txID, out, in, events[0]))
			}
		}
	default:
		// Transfer unilateral: un trade por activo afectado.
		for _, in := range received {
			trades = append(trades, r.transferTrade(ctx, txID, in, events[0]))
		}
		for _, out := range sent {
			trades = append(trades, r.transferTrade(ctx, txID, out, events[0]))
		}
	}

	if len(trades) > 1 {
		for i := range trades {
			trades[i].ID = fmt.Sprintf("%s-%d", txID, i)
		}
	}
	trades[0].Fee = r.feeUSD(ctx, events[0])
	return trades
}

// swapTrade emite el trade de un par (enviado, recibido) de un swap.
// El leg de entrada es el activo enviado; el de salida, el recibido.
func (r *Reconstructor) swapTrade(ctx context.Context, txID string, out, in domain.NetDelta, src domain.TransferEvent) domain.Trade {
	entryQty := -out.Amount // out.Amount es negativo
	entryPrice := r.prices.resolve(ctx, out.AssetID, src.OccurredAt)
	exitPrice := r.prices.resolve(ctx, in.AssetID, src.OccurredAt)

	entryValue := entryQty * entryPrice
	exitValue := in.Amount * exitPrice

	// Size = cantidad del leg de mayor valor USD; en empate gana el de
	// entrada.
	size := entryQty
	if exitValue > entryValue {
		size = in.Amount
	}

	return domain.Trade{
		ID:         txID,
		Symbol:     domain.AssetSymbol(in.AssetID) + "/" + domain.AssetSymbol(out.AssetID),
		Action:     domain.ActionSwap,
		IsLong:     exitValue-entryValue > 0,
		EntryPrice: entryPrice,
		ExitPrice:  exitPrice,
		Size:       size,
		PnL:        exitValue - entryValue,
		EntryTime:  src.OccurredAt,
		ExitTime:   src.OccurredAt,
		OrderType:  domain.OrderMarket,
	}
}

// transferTrade emite el trade de una transferencia unilateral.
func (r *Reconstructor) transferTrade(ctx context.Context, txID string, delta domain.NetDelta, src domain.TransferEvent) domain.Trade {
	price := r.prices.resolve(ctx, delta.AssetID, src.OccurredAt)
	value := delta.Amount * price

	action := domain.ActionReceive
	if delta.Amount < 0 {
		action = domain.ActionSend
	}

	return domain.Trade{
		ID:         txID,
		Symbol:     domain.AssetSymbol(delta.AssetID) + "/USD",
		Action:     action,
		IsLong:     value > 0,
		EntryPrice: price,
		ExitPrice:  price, // iguales en transfers unilaterales
		Size:       abs(delta.Amount),
		PnL:        value,
		EntryTime:  src.OccurredAt,
		ExitTime:   src.OccurredAt,
		OrderType:  domain.OrderMarket,
	}
}

// feeUSD convierte la fee de la tx (lamports) a USD con el precio histórico
// de SOL del día.
func (r *Reconstructor) feeUSD(ctx context.Context, src domain.TransferEvent) float64 {
	if src.FeeLamports <= 0 {
		return 0
	}
	solPrice := r.prices.resolve(ctx, domain.MintSOL, src.OccurredAt)
	return float64(src.FeeLamports) / domain.LamportsPerSOL * solPrice
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
