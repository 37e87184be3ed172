package domain

import "time"

// TransferEvent es un cambio de balance observado para la wallet dentro de
// una transacción atómica. Es la forma normalizada del input externo: los
// adapters (Helius o RPC directo) validan y convierten a esta forma en el
// boundary, el resto del pipeline no vuelve a tocar JSON crudo.
type TransferEvent struct {
	TxID        string    // firma de la transacción; agrupa eventos atómicos
	AssetID     string    // mint del token, o MintSOL para el activo nativo
	Amount      float64   // unidades humanas; positivo = recibido, negativo = enviado
	OccurredAt  time.Time // block time de la transacción
	FeeLamports int64     // fee total de la tx; se cobra UNA vez por tx, nunca por evento
}

// NetDelta es el neto por activo dentro de una transacción, tras colapsar
// transferencias parciales del mismo mint.
type NetDelta struct {
	AssetID string
	Amount  float64
}

// deltaEpsilon descarta restos de redondeo float al netear parciales.
const deltaEpsilon = 1e-9

// NetDeltas agrupa los eventos de UNA transacción y devuelve el delta neto
// por activo, separado en recibidos (positivos) y enviados (negativos).
// Los activos con neto ~0 desaparecen: partir una transferencia de Q en dos
// de Q/2 produce exactamente el mismo resultado que una sola de Q.
func NetDeltas(events []TransferEvent) (received, sent []NetDelta) {
	totals := make(map[string]float64, len(events))
	order := make([]string, 0, len(events))

	for _, ev := range events {
		if _, seen := totals[ev.AssetID]; !seen {
			order = append(order, ev.AssetID)
		}
		totals[ev.AssetID] += ev.Amount
	}

	// Orden de primera aparición — el output debe ser determinista.
	for _, asset := range order {
		net := totals[asset]
		switch {
		case net > deltaEpsilon:
			received = append(received, NetDelta{AssetID: asset, Amount: net})
		case net < -deltaEpsilon:
			sent = append(sent, NetDelta{AssetID: asset, Amount: net})
		}
	}
	return received, sent
}
