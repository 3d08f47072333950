package chainclient

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"wallet_tracer_back/models"
)

const EtherscanAPI = "https://api.etherscan.io"

type etherscanResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type etherscanTransfer struct {
	Hash  string    `json:"hash"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	Value baseUnits `json:"value"`
}

// ERC20Client токен-трансферы через Etherscan (module=account, action=tokentx)
type ERC20Client struct {
	http    *resty.Client
	apiKey  string
	limiter Acquirer
}

func NewERC20Client(cfg Config, limiter Acquirer) *ERC20Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = EtherscanAPI
	}
	return &ERC20Client{
		http:    newRestyClient(cfg),
		apiKey:  cfg.APIKey,
		limiter: limiter,
	}
}

func (c *ERC20Client) Chain() models.Chain {
	return models.ChainERC20
}

func (c *ERC20Client) FetchRecentTransfers(ctx context.Context, address string) ([]models.TransferRecord, error) {
	var body etherscanResponse
	err := get(ctx, c.http, c.limiter, models.ChainERC20, address, "/api", map[string]string{
		"module":  "account",
		"action":  "tokentx",
		"address": address,
		"sort":    "desc",
		"apikey":  c.apiKey,
	}, nil, &body)
	if err != nil {
		return nil, err
	}

	// status "0" это и "No transactions found", и ошибки ключа; в обоих случаях кошелёк пустой
	if body.Status != "1" {
		logrus.WithFields(logrus.Fields{"address": address, "message": body.Message}).
			Debug("Etherscan вернул пустую выдачу")
		return []models.TransferRecord{}, nil
	}

	var raw []etherscanTransfer
	if err := json.Unmarshal(body.Result, &raw); err != nil {
		return nil, &UpstreamFetchError{Chain: models.ChainERC20, Address: address, Message: "decode result: " + err.Error()}
	}

	records := make([]models.TransferRecord, 0, maxRecentTransfers)
	for _, tx := range raw {
		amount, ok := normalizeAmount(tx.Value, erc20Decimals)
		if !ok {
			continue
		}
		records = append(records, models.TransferRecord{
			From:   strings.ToLower(tx.From),
			To:     strings.ToLower(tx.To),
			Amount: amount,
			Hash:   tx.Hash,
		})
	}
	return recent(records), nil
}
