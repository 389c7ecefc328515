package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256Hex returns a trimmed-input SHA-256 hash encoded in hex.
func SHA256Hex(input string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(input)))
	return hex.EncodeToString(sum[:])
}

// VisitorHash identifies a visitor by address and user agent without storing
// the pair in a reversible form. Empty input yields an empty hash.
func VisitorHash(ip, userAgent string) string {
	if strings.TrimSpace(ip) == "" && strings.TrimSpace(userAgent) == "" {
		return ""
	}
	return SHA256Hex(strings.TrimSpace(ip) + "|" + strings.TrimSpace(userAgent))
}
