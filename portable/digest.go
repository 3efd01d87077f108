package portable

import (
	"strconv"
	"unicode/utf16"
)

// digest hashes the proof fields into the "proof_<hex>" form existing proofs
// carry: a 31-multiplier rolling hash over UTF-16 code units, wrapped to
// int32, printed as the hex of its absolute value.
func digest(tokenID, holder, amount, nonce string, timestamp int64, signature string) string {
	data := tokenID + ":" + holder + ":" + amount + ":" + nonce + ":" +
		strconv.FormatInt(timestamp, 10) + ":" + signature
	return "proof_" + strconv.FormatInt(abs64(stringHash(data)), 16)
}

func stringHash(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return h
}

func abs64(v int32) int64 {
	n := int64(v)
	if n < 0 {
		return -n
	}
	return n
}
