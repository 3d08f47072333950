package tree

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet_tracer_back/models"
	"wallet_tracer_back/pkg/chainclient"
)

// graphClient отдаёт заранее заданную выдачу и считает запросы
type graphClient struct {
	mu     sync.Mutex
	graph  map[string][]models.TransferRecord
	fail   map[string]error
	calls  map[string]int
	expand func(address string) []models.TransferRecord
}

func newGraphClient() *graphClient {
	return &graphClient{
		graph: map[string][]models.TransferRecord{},
		fail:  map[string]error{},
		calls: map[string]int{},
	}
}

func (g *graphClient) Chain() models.Chain {
	return models.ChainERC20
}

func (g *graphClient) FetchRecentTransfers(_ context.Context, address string) ([]models.TransferRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls[address]++
	if err, ok := g.fail[address]; ok {
		return nil, err
	}
	if g.expand != nil {
		return g.expand(address), nil
	}
	return g.graph[address], nil
}

func (g *graphClient) link(from, to, amount, hash string) {
	tx := models.TransferRecord{From: from, To: to, Amount: amount, Hash: hash}
	g.graph[from] = append(g.graph[from], tx)
	if to != from {
		g.graph[to] = append(g.graph[to], tx)
	}
}

func maxDepth(node *models.TreeNode) int {
	deepest := 0
	for _, e := range node.Edges {
		if d := 1 + maxDepth(e.Subtree); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// paths собирает адреса на каждом пути от корня до листа
func paths(node *models.TreeNode, prefix []string, out *[][]string) {
	path := append(append([]string{}, prefix...), node.Address)
	if len(node.Edges) == 0 {
		*out = append(*out, path)
		return
	}
	for _, e := range node.Edges {
		paths(e.Subtree, path, out)
	}
}

func TestBuild_NoTransfers(t *testing.T) {
	client := newGraphClient()
	b := NewBuilder(client, 3, nil)

	for depth := 0; depth <= 3; depth++ {
		node, err := b.Build(context.Background(), "0xlonely", depth, nil)
		require.NoError(t, err)
		assert.Equal(t, &models.TreeNode{Address: "0xlonely", Edges: []models.TransactionEdge{}}, node)
	}
	// на глубине лимита запрос не делается
	assert.Equal(t, 3, client.calls["0xlonely"])
}

func TestBuild_SingleHopExample(t *testing.T) {
	client := newGraphClient()
	client.graph["0xABC"] = []models.TransferRecord{{From: "0xABC", To: "0xDEF", Amount: "5.000000", Hash: "0x1"}}

	node, err := NewBuilder(client, 1, nil).Build(context.Background(), "0xABC", 0, nil)
	require.NoError(t, err)

	assert.Equal(t, &models.TreeNode{
		Address: "0xABC",
		Edges: []models.TransactionEdge{{
			From:    "0xABC",
			To:      "0xDEF",
			Value:   "5.000000",
			Hash:    "0x1",
			Subtree: &models.TreeNode{Address: "0xDEF", Edges: []models.TransactionEdge{}},
		}},
	}, node)
	assert.Zero(t, client.calls["0xDEF"], "depth limit reached before fetching 0xDEF")
}

func TestBuild_DepthNeverExceedsLimit(t *testing.T) {
	for limit := 1; limit <= 5; limit++ {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			client := newGraphClient()
			client.expand = func(address string) []models.TransferRecord {
				return []models.TransferRecord{
					{From: address, To: address + "0", Amount: "1.000000", Hash: address + "-0"},
					{From: address + "1", To: address, Amount: "1.000000", Hash: address + "-1"},
				}
			}

			node, err := NewBuilder(client, limit, nil).Build(context.Background(), "r", 0, nil)
			require.NoError(t, err)
			assert.Equal(t, limit, maxDepth(node))

			var all [][]string
			paths(node, nil, &all)
			assert.Len(t, all, 1<<limit, "full binary fan-out")
		})
	}
}

func TestBuild_BranchLocalVisited(t *testing.T) {
	client := newGraphClient()
	client.link("a", "b", "1.000000", "ab")
	client.link("a", "c", "2.000000", "ac")
	client.link("b", "c", "3.000000", "bc")

	node, err := NewBuilder(client, 4, nil).Build(context.Background(), "a", 0, nil)
	require.NoError(t, err)

	var all [][]string
	paths(node, nil, &all)
	require.NotEmpty(t, all)

	seenAcrossPaths := map[string]int{}
	for _, path := range all {
		// последний элемент может быть вырожденным листом с адресом получателя
		inner := path[:len(path)-1]
		unique := map[string]struct{}{}
		for _, a := range inner {
			_, dup := unique[a]
			assert.False(t, dup, "address %s repeated on path %v", a, path)
			unique[a] = struct{}{}
		}
		for a := range unique {
			seenAcrossPaths[a]++
		}
	}
	assert.Greater(t, seenAcrossPaths["c"], 1, "c is expanded on both the a->b and a->c branches")
	assert.Greater(t, client.calls["c"], 1, "sibling branches fetch independently")
}

func TestBuild_VisitedCounterpartyGetsDegenerateLeaf(t *testing.T) {
	client := newGraphClient()
	client.link("a", "b", "1.000000", "ab")

	node, err := NewBuilder(client, 5, nil).Build(context.Background(), "a", 0, nil)
	require.NoError(t, err)

	require.Len(t, node.Edges, 1)
	b := node.Edges[0].Subtree
	require.Equal(t, "b", b.Address)
	require.Len(t, b.Edges, 1)

	back := b.Edges[0]
	assert.Equal(t, "ab", back.Hash)
	assert.Equal(t, models.Leaf("b"), back.Subtree, "leaf takes the recipient address")
	assert.Equal(t, 1, client.calls["a"])
}

func TestBuild_UnrelatedRecordIsNotExpanded(t *testing.T) {
	client := newGraphClient()
	client.graph["a"] = []models.TransferRecord{{From: "x", To: "y", Amount: "1.000000", Hash: "xy"}}

	node, err := NewBuilder(client, 3, nil).Build(context.Background(), "a", 0, nil)
	require.NoError(t, err)
	require.Len(t, node.Edges, 1)
	assert.Equal(t, models.Leaf("y"), node.Edges[0].Subtree)
	assert.Zero(t, client.calls["x"]+client.calls["y"])
}

func TestBuild_EdgesKeepFetchOrder(t *testing.T) {
	client := newGraphClient()
	client.graph["a"] = []models.TransferRecord{
		{From: "a", To: "new", Amount: "1.000000", Hash: "first"},
		{From: "old", To: "a", Amount: "2.000000", Hash: "second"},
	}

	node, err := NewBuilder(client, 1, nil).Build(context.Background(), "a", 0, nil)
	require.NoError(t, err)
	require.Len(t, node.Edges, 2)
	assert.Equal(t, "first", node.Edges[0].Hash)
	assert.Equal(t, "new", node.Edges[0].Subtree.Address)
	assert.Equal(t, "second", node.Edges[1].Hash)
	assert.Equal(t, "old", node.Edges[1].Subtree.Address)
}

func TestBuild_FetchErrorAbortsWholeTree(t *testing.T) {
	client := newGraphClient()
	client.link("root", "hop1", "1.000000", "h1")
	client.link("root", "sibling", "1.000000", "h2")
	client.fail["hop1"] = &chainclient.UpstreamFetchError{Chain: models.ChainERC20, Address: "hop1", Message: "connection reset"}

	node, err := NewBuilder(client, 3, nil).Build(context.Background(), "root", 0, nil)
	require.Error(t, err)
	assert.Nil(t, node)

	var upstream *chainclient.UpstreamFetchError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "hop1", upstream.Address)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Zero(t, client.calls["sibling"], "expansion stops at the first failure")
}

func TestBuild_ReportsProgressPerExpandedWallet(t *testing.T) {
	client := newGraphClient()
	client.link("a", "b", "1.000000", "ab")
	client.link("b", "c", "1.000000", "bc")

	var reports []int
	var addresses []string
	b := NewBuilder(client, 7, func(address string, branchVisited int) {
		addresses = append(addresses, address)
		reports = append(reports, branchVisited)
	})

	_, err := b.Build(context.Background(), "a", 0, nil)
	require.NoError(t, err)

	// дети отчитываются раньше родителя
	assert.Equal(t, []string{"c", "b", "a"}, addresses)
	assert.Equal(t, []int{3, 2, 1}, reports)
}

func TestBuild_DoesNotMutateCallerVisited(t *testing.T) {
	client := newGraphClient()
	client.link("a", "b", "1.000000", "ab")

	visited := map[string]struct{}{"z": {}}
	_, err := NewBuilder(client, 3, nil).Build(context.Background(), "a", 0, visited)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"z": {}}, visited)
}

func TestNewBuilder_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultDepthLimit, NewBuilder(newGraphClient(), 0, nil).Limit())
}
