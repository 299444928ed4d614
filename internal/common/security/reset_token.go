package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewResetToken returns an opaque 40-character hex token. It carries no
// decodable structure; validity lives entirely in the user row it is stored
// against.
func NewResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("security.NewResetToken: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
