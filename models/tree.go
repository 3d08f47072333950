package models

type TreeNode struct {
	Address string            `json:"address"`
	Edges   []TransactionEdge `json:"edges"`
}

type TransactionEdge struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Value   string    `json:"value"`
	Hash    string    `json:"hash"`
	Subtree *TreeNode `json:"subtree"`
}

// Leaf узел без рёбер, которым заканчивается ветка
func Leaf(address string) *TreeNode {
	return &TreeNode{Address: address, Edges: []TransactionEdge{}}
}
