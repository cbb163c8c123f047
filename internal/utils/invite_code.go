package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// inviteAlphabet has 32 symbols so a random byte maps onto it without bias.
// 0, O, 1 and I are left out since codes get read aloud.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	inviteGroups    = 3
	inviteGroupSize = 4
)

// GenerateInviteCode returns a random team invite code like "K7QD-ZP3M-W2XA".
func GenerateInviteCode() (string, error) {
	raw := make([]byte, inviteGroups*inviteGroupSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}

	groups := make([]string, inviteGroups)
	for g := range groups {
		var sb strings.Builder
		for _, b := range raw[g*inviteGroupSize : (g+1)*inviteGroupSize] {
			sb.WriteByte(inviteAlphabet[int(b)%len(inviteAlphabet)])
		}
		groups[g] = sb.String()
	}
	return strings.Join(groups, "-"), nil
}

// NormalizeInviteCode trims and upper-cases a user-typed code.
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
