package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/soltrack/internal/domain"
)

const wallet = "WaLLet1111111111111111111111111111111111111"

func TestSignedAmount(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		amount   float64
		want     float64
	}{
		{"recibe", "other", wallet, 5, 5},
		{"envía", wallet, "other", 5, -5},
		{"self-transfer", wallet, wallet, 5, 0},
		{"no participa", "a", "b", 5, 0},
		{"cantidad cero", "other", wallet, 0, 0},
		{"cantidad negativa", "other", wallet, -5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, signedAmount(tc.amount, tc.from, tc.to, wallet), 1e-12)
		})
	}
}

func TestNormalizeTx_Validation(t *testing.T) {
	valid := enhancedTransaction{
		Signature: "sig1",
		Timestamp: 1750000000,
		Fee:       5000,
		NativeTransfers: []nativeTransfer{
			{FromUserAccount: wallet, ToUserAccount: "other", Amount: 2_000_000_000},
		},
	}

	t.Run("válida", func(t *testing.T) {
		events, ok := normalizeTx(valid, wallet)
		require.True(t, ok)
		require.Len(t, events, 1)
		assert.Equal(t, "sig1", events[0].TxID)
		assert.Equal(t, domain.MintSOL, events[0].AssetID)
		assert.InDelta(t, -2.0, events[0].Amount, 1e-12) // lamports → SOL, con signo
		assert.Equal(t, int64(5000), events[0].FeeLamports)
		assert.Equal(t, time.Unix(1750000000, 0).UTC(), events[0].OccurredAt)
	})

	t.Run("sin firma", func(t *testing.T) {
		tx := valid
		tx.Signature = ""
		_, ok := normalizeTx(tx, wallet)
		assert.False(t, ok)
	})

	t.Run("timestamp inválido", func(t *testing.T) {
		tx := valid
		tx.Timestamp = 0
		_, ok := normalizeTx(tx, wallet)
		assert.False(t, ok)
	})

	t.Run("tx fallida on-chain", func(t *testing.T) {
		tx := valid
		tx.TransactionError = &txError{Error: "InstructionError"}
		_, ok := normalizeTx(tx, wallet)
		assert.False(t, ok)
	})

	t.Run("token transfer sin mint se salta", func(t *testing.T) {
		tx := valid
		tx.NativeTransfers = nil
		tx.TokenTransfers = []tokenTransfer{
			{FromUserAccount: "other", ToUserAccount: wallet, TokenAmount: 100},
		}
		events, ok := normalizeTx(tx, wallet)
		assert.True(t, ok, "la tx es válida aunque el transfer se descarte")
		assert.Empty(t, events)
	})

	t.Run("token transfer con mint", func(t *testing.T) {
		tx := valid
		tx.NativeTransfers = nil
		tx.TokenTransfers = []tokenTransfer{
			{FromUserAccount: "other", ToUserAccount: wallet, TokenAmount: 100, Mint: "mintX"},
		}
		events, ok := normalizeTx(tx, wallet)
		require.True(t, ok)
		require.Len(t, events, 1)
		assert.Equal(t, "mintX", events[0].AssetID)
		assert.InDelta(t, 100.0, events[0].Amount, 1e-12)
	})
}

func TestListTransfers(t *testing.T) {
	page := []enhancedTransaction{
		{
			Signature: "sig1",
			Timestamp: 1750000000,
			Fee:       5000,
			NativeTransfers: []nativeTransfer{
				{FromUserAccount: wallet, ToUserAccount: "dex", Amount: 2_000_000_000},
			},
			TokenTransfers: []tokenTransfer{
				{FromUserAccount: "dex", ToUserAccount: wallet, TokenAmount: 200, Mint: "usdcMint"},
			},
		},
		{Signature: "", Timestamp: 1750000001}, // malformada, se salta
	}

	var gotBefore []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/v0/addresses/%s/transactions", wallet), r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))
		gotBefore = append(gotBefore, r.URL.Query().Get("before"))
		// Menos de una página completa: se corta tras la primera petición.
		require.NoError(t, json.NewEncoder(w).Encode(page))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	events, err := c.ListTransfers(context.Background(), wallet)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, []string{""}, gotBefore)

	assert.Equal(t, domain.MintSOL, events[0].AssetID)
	assert.InDelta(t, -2.0, events[0].Amount, 1e-12)
	assert.Equal(t, "usdcMint", events[1].AssetID)
	assert.InDelta(t, 200.0, events[1].Amount, 1e-12)
}

func TestListTransfers_EmptyHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	events, err := c.ListTransfers(context.Background(), wallet)

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestListTransfers_ClientErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key")
	_, err := c.ListTransfers(context.Background(), wallet)

	require.Error(t, err)
	assert.ErrorContains(t, err, "401")
}

func TestListTransfers_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	events, err := c.ListTransfers(context.Background(), wallet)

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 2, calls)
}
