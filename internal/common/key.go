package common

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

func HexToPrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	privateKeyBytes, err := hex.DecodeString(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, err
	}

	privateKey, err := crypto.ToECDSA(privateKeyBytes)
	if err != nil {
		return nil, err
	}

	return privateKey, nil
}

// GenerateHexPrivateKey generates a new private key, returns it hex encoded with its address
func GenerateHexPrivateKey() (string, string, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return "", "", err
	}

	// Convert the private key to bytes
	privateKeyBytes := crypto.FromECDSA(pk)

	// Convert the bytes to a hexadecimal string
	privateKeyHex := hex.EncodeToString(privateKeyBytes)

	return privateKeyHex, crypto.PubkeyToAddress(pk.PublicKey).Hex(), nil
}
