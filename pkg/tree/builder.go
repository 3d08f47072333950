package tree

import (
	"context"

	"github.com/pkg/errors"

	"wallet_tracer_back/models"
	"wallet_tracer_back/pkg/chainclient"
)

const DefaultDepthLimit = 7

// ProgressFunc вызывается после обработки каждого раскрытого кошелька.
// branchVisited размер множества посещённых адресов на текущей ветке.
type ProgressFunc func(address string, branchVisited int)

// Builder раскрывает кошелёк в дерево транзакций ограниченной глубины.
// Множество посещённых адресов своё у каждой ветки: один и тот же адрес
// может встретиться в соседних ветках, но не дважды на пути от корня.
type Builder struct {
	client     chainclient.Client
	limit      int
	onProgress ProgressFunc
}

func NewBuilder(client chainclient.Client, limit int, onProgress ProgressFunc) *Builder {
	if limit <= 0 {
		limit = DefaultDepthLimit
	}
	if onProgress == nil {
		onProgress = func(string, int) {}
	}
	return &Builder{
		client:     client,
		limit:      limit,
		onProgress: onProgress,
	}
}

func (b *Builder) Limit() int {
	return b.limit
}

// Build строит дерево от address. Любая ошибка запроса прерывает всё построение,
// частичное дерево не возвращается.
func (b *Builder) Build(ctx context.Context, address string, depth int, branchVisited map[string]struct{}) (*models.TreeNode, error) {
	node := models.Leaf(address)
	if depth >= b.limit {
		return node, nil
	}

	visited := make(map[string]struct{}, len(branchVisited)+1)
	for a := range branchVisited {
		visited[a] = struct{}{}
	}
	visited[address] = struct{}{}

	records, err := b.client.FetchRecentTransfers(ctx, address)
	if err != nil {
		return nil, errors.Wrapf(err, "expand %s at depth %d", address, depth)
	}

	for _, tx := range records {
		edge := models.TransactionEdge{
			From:  tx.From,
			To:    tx.To,
			Value: tx.Amount,
			Hash:  tx.Hash,
		}

		next, ok := counterparty(address, tx, visited)
		if !ok {
			edge.Subtree = models.Leaf(tx.To)
			node.Edges = append(node.Edges, edge)
			continue
		}

		subtree, err := b.Build(ctx, next, depth+1, visited)
		if err != nil {
			return nil, err
		}
		edge.Subtree = subtree
		node.Edges = append(node.Edges, edge)
	}

	b.onProgress(address, len(visited))
	return node, nil
}

// counterparty выбирает, куда раскрываться дальше по транзакции
func counterparty(address string, tx models.TransferRecord, visited map[string]struct{}) (string, bool) {
	_, toSeen := visited[tx.To]
	_, fromSeen := visited[tx.From]

	switch {
	case address == tx.From && !toSeen:
		return tx.To, true
	case address == tx.To && !fromSeen:
		return tx.From, true
	}
	return "", false
}
