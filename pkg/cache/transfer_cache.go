package cache

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"wallet_tracer_back/models"
	"wallet_tracer_back/pkg/chainclient"
	"wallet_tracer_back/pkg/metrics"
)

// TransferCache кэш выдачи эксплорера в пределах одной задачи.
// Хранится сырой результат запроса, а не решение о посещении адреса,
// поэтому форма дерева от кэша не зависит.
type TransferCache struct {
	mu      sync.Mutex
	entries map[string][]models.TransferRecord
}

func NewTransferCache() *TransferCache {
	return &TransferCache{entries: make(map[string][]models.TransferRecord)}
}

// Get возвращает выдачу из кэша или false, если адрес ещё не запрашивали
func (c *TransferCache) Get(address string) ([]models.TransferRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, ok := c.entries[address]
	return records, ok
}

// Set сохраняет выдачу в кэш
func (c *TransferCache) Set(address string, records []models.TransferRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[address] = records
}

func (c *TransferCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// CachingClient оборачивает клиента сети кэшем. Ошибки не кэшируются.
type CachingClient struct {
	chainclient.Client
	cache *TransferCache
}

func NewCachingClient(client chainclient.Client, cache *TransferCache) *CachingClient {
	return &CachingClient{Client: client, cache: cache}
}

func (c *CachingClient) FetchRecentTransfers(ctx context.Context, address string) ([]models.TransferRecord, error) {
	if records, ok := c.cache.Get(address); ok {
		metrics.FetchCacheHits.Inc()
		logrus.WithField("address", address).Debug("Транзакции взяты из кэша задачи")
		return records, nil
	}

	records, err := c.Client.FetchRecentTransfers(ctx, address)
	if err != nil {
		return nil, err
	}
	c.cache.Set(address, records)
	return records, nil
}
