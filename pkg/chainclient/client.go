package chainclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"wallet_tracer_back/models"
	"wallet_tracer_back/pkg/metrics"
)

// maxRecentTransfers сколько последних подходящих транзакций отдаём на кошелёк
const maxRecentTransfers = 2

// Client источник транзакций одной сети
type Client interface {
	Chain() models.Chain
	// FetchRecentTransfers возвращает до двух последних транзакций с положительной суммой, от новых к старым
	FetchRecentTransfers(ctx context.Context, address string) ([]models.TransferRecord, error)
}

// Acquirer общий ограничитель частоты запросов
type Acquirer interface {
	Acquire()
}

// UpstreamFetchError ошибка транспорта или не-2xx ответ эксплорера
type UpstreamFetchError struct {
	Chain   models.Chain
	Address string
	Message string
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("failed to fetch transactions: %s", e.Message)
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func newRestyClient(cfg Config) *resty.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// get общий путь запроса: ждём разрешение лимитера, делаем GET, проверяем статус
func get(ctx context.Context, rc *resty.Client, limiter Acquirer, chain models.Chain, address, path string,
	params map[string]string, headers map[string]string, result interface{}) error {
	limiter.Acquire()

	resp, err := rc.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetHeaders(headers).
		ForceContentType("application/json").
		SetResult(result).
		Get(path)
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues(string(chain), "error").Inc()
		return &UpstreamFetchError{Chain: chain, Address: address, Message: err.Error()}
	}
	if resp.IsError() {
		metrics.UpstreamFetches.WithLabelValues(string(chain), "error").Inc()
		return &UpstreamFetchError{Chain: chain, Address: address, Message: resp.String()}
	}

	metrics.UpstreamFetches.WithLabelValues(string(chain), "ok").Inc()
	return nil
}

// recent обрезает уже отфильтрованную выдачу до maxRecentTransfers
func recent(records []models.TransferRecord) []models.TransferRecord {
	if len(records) > maxRecentTransfers {
		records = records[:maxRecentTransfers]
	}
	return records
}

// Registry клиенты по сетям
type Registry map[models.Chain]Client

func NewRegistry(clients ...Client) Registry {
	r := make(Registry, len(clients))
	for _, c := range clients {
		r[c.Chain()] = c
	}
	return r
}

func (r Registry) For(chain models.Chain) (Client, bool) {
	c, ok := r[chain]
	return c, ok
}
