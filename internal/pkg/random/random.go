package random

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// TicketCodeBytes yields a 32 character code.
const TicketCodeBytes = 16

// Code returns n random bytes as upper-case hex.
func Code(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(b)), nil
}

func TicketCode() (string, error) {
	return Code(TicketCodeBytes)
}
