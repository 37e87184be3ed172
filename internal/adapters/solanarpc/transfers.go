package solanarpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

// DTOs del RPC. Solo los campos necesarios para el replay de balances.

type signatureInfo struct {
	Signature string `json:"signature"`
	BlockTime int64  `json:"blockTime"`
	Err       any    `json:"err"`
}

type transactionResult struct {
	BlockTime   int64   `json:"blockTime"`
	Meta        *txMeta `json:"meta"`
	Transaction txBody  `json:"transaction"`
}

type txMeta struct {
	Err               any            `json:"err"`
	Fee               int64          `json:"fee"`
	PreBalances       []int64        `json:"preBalances"`
	PostBalances      []int64        `json:"postBalances"`
	PreTokenBalances  []tokenBalance `json:"preTokenBalances"`
	PostTokenBalances []tokenBalance `json:"postTokenBalances"`
}

type txBody struct {
	Message txMessage `json:"message"`
}

type txMessage struct {
	AccountKeys []accountKey `json:"accountKeys"`
}

type accountKey struct {
	Pubkey string `json:"pubkey"`
}

type tokenBalance struct {
	Mint          string        `json:"mint"`
	Owner         string        `json:"owner"`
	UiTokenAmount uiTokenAmount `json:"uiTokenAmount"`
}

type uiTokenAmount struct {
	UiAmount float64 `json:"uiAmount"`
}

// ListTransfers implementa ports.TransferProvider reconstruyendo los eventos
// desde los snapshots pre/post de cada transacción: es el mismo algoritmo de
// net-delta que el path primario, aplicado a datos de menor nivel.
func (c *Client) ListTransfers(ctx context.Context, wallet string) ([]domain.TransferEvent, error) {
	var sigs []signatureInfo
	params := []any{wallet, map[string]any{"limit": maxSignatures}}
	if err := c.call(ctx, "getSignaturesForAddress", params, &sigs); err != nil {
		return nil, fmt.Errorf("solanarpc.ListTransfers: %w", err)
	}

	var events []domain.TransferEvent
	for _, sig := range sigs {
		if sig.Err != nil || sig.Signature == "" {
			continue
		}

		evs, err := c.replayTransaction(ctx, sig.Signature, wallet)
		if err != nil {
			// Una tx ilegible se salta, no aborta el replay completo.
			slog.Debug("skipping unreadable transaction", "signature", sig.Signature, "err", err)
			continue
		}
		events = append(events, evs...)
	}

	slog.Debug("rpc replay complete", "signatures", len(sigs), "events", len(events))
	return events, nil
}

// replayTransaction obtiene una transacción y deriva los deltas de balance
// de la wallet (nativo y por token) entre los snapshots pre y post.
func (c *Client) replayTransaction(ctx context.Context, signature, wallet string) ([]domain.TransferEvent, error) {
	var tx transactionResult
	params := []any{signature, map[string]any{
		"encoding":                       "jsonParsed",
		"maxSupportedTransactionVersion": 0,
	}}
	if err := c.call(ctx, "getTransaction", params, &tx); err != nil {
		return nil, err
	}
	if tx.Meta == nil || tx.Meta.Err != nil || tx.BlockTime <= 0 {
		return nil, fmt.Errorf("transaction %s not usable", signature)
	}

	occurredAt := time.Unix(tx.BlockTime, 0).UTC()
	var events []domain.TransferEvent

	// Delta nativo: post - pre en la cuenta de la wallet. Si la wallet es
	// el fee payer (cuenta 0) la fee ya está descontada del post-balance;
	// se suma de vuelta para no contarla además como transferencia.
	walletIdx := -1
	for i, key := range tx.Transaction.Message.AccountKeys {
		if key.Pubkey == wallet {
			walletIdx = i
			break
		}
	}
	if walletIdx >= 0 && walletIdx < len(tx.Meta.PreBalances) && walletIdx < len(tx.Meta.PostBalances) {
		deltaLamports := tx.Meta.PostBalances[walletIdx] - tx.Meta.PreBalances[walletIdx]
		if walletIdx == 0 {
			deltaLamports += tx.Meta.Fee
		}
		if deltaLamports != 0 {
			events = append(events, domain.TransferEvent{
				TxID:        signature,
				AssetID:     domain.MintSOL,
				Amount:      float64(deltaLamports) / domain.LamportsPerSOL,
				OccurredAt:  occurredAt,
				FeeLamports: tx.Meta.Fee,
			})
		}
	}

	// Deltas de tokens: post - pre por mint, solo cuentas de la wallet.
	pre := tokenAmountsByMint(tx.Meta.PreTokenBalances, wallet)
	post := tokenAmountsByMint(tx.Meta.PostTokenBalances, wallet)
	for mint, postAmount := range post {
		if delta := postAmount - pre[mint]; delta != 0 {
			events = append(events, domain.TransferEvent{
				TxID:        signature,
				AssetID:     mint,
				Amount:      delta,
				OccurredAt:  occurredAt,
				FeeLamports: tx.Meta.Fee,
			})
		}
	}
	for mint, preAmount := range pre {
		if _, seen := post[mint]; !seen && preAmount != 0 {
			// Cuenta cerrada en la tx: todo el balance salió.
			events = append(events, domain.TransferEvent{
				TxID:        signature,
				AssetID:     mint,
				Amount:      -preAmount,
				OccurredAt:  occurredAt,
				FeeLamports: tx.Meta.Fee,
			})
		}
	}

	return events, nil
}

// tokenAmountsByMint acumula los balances de token de la wallet por mint.
func tokenAmountsByMint(balances []tokenBalance, wallet string) map[string]float64 {
	amounts := make(map[string]float64, len(balances))
	for _, b := range balances {
		if b.Owner != wallet || b.Mint == "" {
			continue
		}
		amounts[b.Mint] += b.UiTokenAmount.UiAmount
	}
	return amounts
}
