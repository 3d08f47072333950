package chainclient

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

const (
	erc20Decimals = 18
	tronDecimals  = 6

	displayDecimals = 6
)

// baseUnits сумма в минимальных единицах. Эксплореры отдают её то строкой, то числом.
type baseUnits string

func (b *baseUnits) UnmarshalJSON(data []byte) error {
	*b = baseUnits(bytes.Trim(data, `"`))
	if *b == "null" {
		*b = ""
	}
	return nil
}

// normalizeAmount переводит базовые единицы в целые монеты с 6 знаками после точки.
// Нулевые, отрицательные и нечитаемые суммы отбрасываются (ok == false).
func normalizeAmount(raw baseUnits, decimals int) (string, bool) {
	if raw == "" {
		return "", false
	}
	value, ok := math.ParseBig256(string(raw))
	if !ok || value.Sign() <= 0 {
		return "", false
	}

	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(value, unit).FloatString(displayDecimals), true
}
