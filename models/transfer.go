package models

type Chain string

const (
	ChainERC20 Chain = "ERC20"
	ChainTRON  Chain = "TRON"
)

// TransferRecord одна нормализованная транзакция из выдачи эксплорера.
// Amount уже переведён из базовых единиц и отформатирован до 6 знаков.
type TransferRecord struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Hash   string `json:"hash"`
}
