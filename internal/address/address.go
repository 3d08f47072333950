package address

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"wallet_tracer_back/models"
)

const tronPrefix byte = 0x41

var ErrInvalidAddress = errors.New("invalid wallet address")

// ChainOf определяет сеть по виду адреса: префикс T - TRON, всё остальное считается ERC20
func ChainOf(address string) models.Chain {
	if strings.HasPrefix(address, "T") {
		return models.ChainTRON
	}
	return models.ChainERC20
}

// Validate проверяет адрес и возвращает сеть, к которой он относится
func Validate(address string) (models.Chain, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrInvalidAddress
	}

	chain := ChainOf(address)
	switch chain {
	case models.ChainTRON:
		if !validTron(address) {
			return "", ErrInvalidAddress
		}
	default:
		if !strings.HasPrefix(address, "0x") || !common.IsHexAddress(address) {
			return "", ErrInvalidAddress
		}
	}
	return chain, nil
}

// Normalize приводит адрес к виду, в котором его отдаёт эксплорер.
// Etherscan отдаёт адреса в нижнем регистре, base58 регистрозависим.
func Normalize(address string) string {
	address = strings.TrimSpace(address)
	if ChainOf(address) == models.ChainERC20 {
		return strings.ToLower(address)
	}
	return address
}

func validTron(address string) bool {
	decoded, err := base58.Decode(address)
	if err != nil || len(decoded) != 25 {
		return false
	}

	raw := decoded[:21] // префикс 0x41 + 20 байт тела
	if raw[0] != tronPrefix {
		return false
	}
	return bytes.Equal(decoded[21:], tronChecksum(raw))
}

// tronChecksum чексума по стандарту TRON (double SHA256)
func tronChecksum(raw []byte) []byte {
	first := sha256.Sum256(raw)
	second := sha256.Sum256(first[:])
	return second[:4]
}
