package helius

// DTOs de la Enhanced Transactions API. Solo los campos que consumimos.

type enhancedTransaction struct {
	Signature        string           `json:"signature"`
	Type             string           `json:"type"`
	Source           string           `json:"source"`
	Fee              int64            `json:"fee"` // lamports
	FeePayer         string           `json:"feePayer"`
	Timestamp        int64            `json:"timestamp"` // unix seconds
	NativeTransfers  []nativeTransfer `json:"nativeTransfers"`
	TokenTransfers   []tokenTransfer  `json:"tokenTransfers"`
	TransactionError *txError         `json:"transactionError"`
}

type nativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"` // lamports
}

type tokenTransfer struct {
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	TokenAmount     float64 `json:"tokenAmount"` // ya ajustado por decimals
	Mint            string  `json:"mint"`
}

type txError struct {
	Error string `json:"error"`
}
