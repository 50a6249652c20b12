package common

import "fmt"

// ShortenAddress keeps the 0x prefix with 4 hex chars and the last 4 chars, so it fits on a card
func ShortenAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}

	return fmt.Sprintf("%s...%s", addr[:6], addr[len(addr)-4:])
}
