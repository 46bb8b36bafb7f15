package service

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	// inviteAlphabet leaves out 0, O, 1 and I, which are easy to misread.
	inviteAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeLength = 6
	inviteAttempts   = 5
)

// NewInviteCode returns a random group invite code.
func NewInviteCode() (string, error) {
	size := big.NewInt(int64(len(inviteAlphabet)))
	var b strings.Builder
	b.Grow(inviteCodeLength)
	for range inviteCodeLength {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(inviteAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeInviteCode makes lookups tolerant of case and stray whitespace.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
