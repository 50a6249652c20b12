package main

import (
	"log"

	"github.com/kryptapp/krypt/internal/common"
)

func main() {
	log.Default().Println("generating...")
	log.Default().Println(" ")

	pk, address, err := common.GenerateHexPrivateKey()
	if err != nil {
		log.Fatal(err)
	}

	log.Default().Printf("private key: %s\n", pk)
	log.Default().Printf("address: %s\n", address)
	log.Default().Println(" ")
	log.Default().Println("set WALLET_PRIVATE_KEY to the private key and fund the address before sending")
}
