package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

func Keccak256(data string) string {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}

// EventTopic returns the 0x-prefixed topic of an event signature such as
// "Transfer(address,address,uint256)".
func EventTopic(signature string) string {
	return "0x" + Keccak256(signature)
}
