package helius

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

// ListTransfers implementa ports.TransferProvider: descarga el historial de
// la wallet paginando y lo normaliza a domain.TransferEvent. Los registros
// malformados se saltan y se loggean, nunca tumban el batch.
func (c *Client) ListTransfers(ctx context.Context, wallet string) ([]domain.TransferEvent, error) {
	var events []domain.TransferEvent
	var beforeSig string
	skipped := 0

	for page := 0; page < maxPages; page++ {
		txns, err := c.fetchPage(ctx, wallet, beforeSig)
		if err != nil {
			return nil, fmt.Errorf("helius.ListTransfers: page %d: %w", page, err)
		}
		if len(txns) == 0 {
			break
		}

		for _, tx := range txns {
			evs, ok := normalizeTx(tx, wallet)
			if !ok {
				skipped++
				continue
			}
			events = append(events, evs...)
		}

		beforeSig = txns[len(txns)-1].Signature
		slog.Debug("helius page fetched",
			"page", page,
			"txns", len(txns),
			"events", len(events),
		)

		if len(txns) < pageSize {
			break
		}
	}

	if skipped > 0 {
		slog.Debug("skipped malformed transactions", "count", skipped)
	}
	return events, nil
}

// fetchPage descarga una página del historial de la dirección.
func (c *Client) fetchPage(ctx context.Context, wallet, beforeSig string) ([]enhancedTransaction, error) {
	params := url.Values{}
	params.Set("api-key", c.apiKey)
	params.Set("limit", fmt.Sprintf("%d", pageSize))
	if beforeSig != "" {
		params.Set("before", beforeSig)
	}

	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?%s", c.baseURL, wallet, params.Encode())

	var txns []enhancedTransaction
	if err := c.get(ctx, endpoint, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// normalizeTx valida una transacción y extrae los cambios de balance de la
// wallet como eventos con signo. Devuelve ok=false si el registro no tiene
// los campos mínimos (firma, timestamp) o la tx falló on-chain.
func normalizeTx(tx enhancedTransaction, wallet string) ([]domain.TransferEvent, bool) {
	if tx.Signature == "" || tx.Timestamp <= 0 {
		return nil, false
	}
	if tx.TransactionError != nil {
		return nil, false
	}

	occurredAt := time.Unix(tx.Timestamp, 0).UTC()
	fee := tx.Fee
	if fee < 0 {
		fee = 0
	}

	var events []domain.TransferEvent

	for _, nt := range tx.NativeTransfers {
		amount := signedAmount(float64(nt.Amount)/domain.LamportsPerSOL, nt.FromUserAccount, nt.ToUserAccount, wallet)
		if amount == 0 {
			continue
		}
		events = append(events, domain.TransferEvent{
			TxID:        tx.Signature,
			AssetID:     domain.MintSOL,
			Amount:      amount,
			OccurredAt:  occurredAt,
			FeeLamports: fee,
		})
	}

	for _, tt := range tx.TokenTransfers {
		if tt.Mint == "" {
			continue // sin mint no hay activo identificable
		}
		amount := signedAmount(tt.TokenAmount, tt.FromUserAccount, tt.ToUserAccount, wallet)
		if amount == 0 {
			continue
		}
		events = append(events, domain.TransferEvent{
			TxID:        tx.Signature,
			AssetID:     tt.Mint,
			Amount:      amount,
			OccurredAt:  occurredAt,
			FeeLamports: fee,
		})
	}

	return events, true
}

// signedAmount orienta una cantidad según la dirección respecto a la wallet:
// positivo si la wallet recibe, negativo si envía, 0 si no participa
// (o en self-transfers, que netean a nada).
func signedAmount(amount float64, from, to, wallet string) float64 {
	if amount <= 0 {
		return 0
	}
	switch {
	case from == wallet && to == wallet:
		return 0
	case to == wallet:
		return amount
	case from == wallet:
		return -amount
	default:
		return 0
	}
}
