package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Ambiguous glyphs (0/O, 1/I/L) are excluded so codes survive being read aloud.
var inviteCodeCharset = []rune("ABCDEFGHJKMNPQRSTUVWXYZ23456789")

// GenerateInviteCode produces a random uppercase code of the given length.
func GenerateInviteCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(inviteCodeCharset))
		if err != nil {
			return "", err
		}
		result[i] = inviteCodeCharset[idx]
	}
	return string(result), nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
