package common

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsSameHexAddress compares two hex addresses regardless of checksum casing
func IsSameHexAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ChecksumAddress returns the mixed case form of addr, or the zero address if addr is not hex
func ChecksumAddress(addr string) string {
	if !common.IsHexAddress(addr) {
		return common.Address{}.Hex()
	}

	return common.HexToAddress(addr).Hex()
}
