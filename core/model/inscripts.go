package model

import "strings"

const DataPrefix = "data:"

// Inscription is the decoded payload of a data: transaction.
type Inscription struct {
	Hash        string
	Number      uint64
	From        string
	To          string
	Block       uint64
	Idx         uint32
	Timestamp   uint64
	ContentType string
	Content     string
}

// Owner is the address an inscription belongs to: the transaction recipient,
// or the sender for contract creations.
func (i *Inscription) Owner() string {
	if i.To == "" {
		return strings.ToLower(i.From)
	}
	return strings.ToLower(i.To)
}

// EncodeDataURI wraps content into the data URI carried by transaction input.
func EncodeDataURI(contentType, content string) string {
	if contentType == "" || contentType == "text/plain" {
		return DataPrefix + "," + content
	}
	return DataPrefix + contentType + "," + content
}
