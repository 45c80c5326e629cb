package engine

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
)

const (
	codeLength     = 4
	codeGenRetries = 5
)

// codeRegistry tracks auction codes handed out by this process so the same
// code is not generated twice between database uniqueness checks.
type codeRegistry struct {
	used sync.Map
}

// generateAuctionCode produces a short, human-quotable public code, unique
// both within this process and against the auctions already stored.
func (e *Engine) generateAuctionCode(ctx context.Context) (string, error) {
	for i := 0; i < codeGenRetries; i++ {
		// 3 random bytes, base32-encoded (5 bits per character)
		bytes := make([]byte, 3)
		if _, err := rand.Read(bytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}

		encoded := base32.StdEncoding.EncodeToString(bytes)
		code := strings.ToUpper(encoded[:codeLength])

		if _, exists := e.usedCodes.used.LoadOrStore(code, true); exists {
			continue
		}

		taken, err := e.auctions.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check auction code: %w", err)
		}
		if taken {
			continue
		}
		return code, nil
	}

	return "", fmt.Errorf("failed to generate unique auction code after %d attempts", codeGenRetries)
}
