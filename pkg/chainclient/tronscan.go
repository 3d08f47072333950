package chainclient

import (
	"context"

	"github.com/go-resty/resty/v2"

	"wallet_tracer_back/models"
)

const (
	TronScanAPI = "https://apilist.tronscan.org"

	// tronPageSize нулевых переводов в TRON много, страницу берём с запасом
	tronPageSize = "40"
)

type tronscanResponse struct {
	Total int                `json:"total"`
	Data  []tronscanTransfer `json:"data"`
}

type tronscanTransfer struct {
	Hash         string    `json:"hash"`
	OwnerAddress string    `json:"ownerAddress"`
	ToAddress    string    `json:"toAddress"`
	Amount       baseUnits `json:"amount"`
}

// TronClient транзакции через Tronscan /api/transaction
type TronClient struct {
	http    *resty.Client
	apiKey  string
	limiter Acquirer
}

func NewTronClient(cfg Config, limiter Acquirer) *TronClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = TronScanAPI
	}
	return &TronClient{
		http:    newRestyClient(cfg),
		apiKey:  cfg.APIKey,
		limiter: limiter,
	}
}

func (c *TronClient) Chain() models.Chain {
	return models.ChainTRON
}

func (c *TronClient) FetchRecentTransfers(ctx context.Context, address string) ([]models.TransferRecord, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["TRON-PRO-API-KEY"] = c.apiKey
	}

	var body tronscanResponse
	err := get(ctx, c.http, c.limiter, models.ChainTRON, address, "/api/transaction", map[string]string{
		"address":         address,
		"limit":           tronPageSize,
		"start":           "0",
		"sort":            "-timestamp",
		"count":           "true",
		"start_timestamp": "0",
	}, headers, &body)
	if err != nil {
		return nil, err
	}

	records := make([]models.TransferRecord, 0, maxRecentTransfers)
	for _, tx := range body.Data {
		amount, ok := normalizeAmount(tx.Amount, tronDecimals)
		if !ok {
			continue
		}
		records = append(records, models.TransferRecord{
			From:   tx.OwnerAddress,
			To:     tx.ToAddress,
			Amount: amount,
			Hash:   tx.Hash,
		})
	}
	return recent(records), nil
}
