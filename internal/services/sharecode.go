package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tyler-smith/go-bip39/wordlists"

	"github.com/votethebeat/backend/internal/db"
)

// wordlist is the BIP39 English wordlist (2048 words).
// Two words plus a number gives 2048 × 2048 × 100 = 419 million combinations.
var wordlist = wordlists.English

// ShareCodeService generates unique, human-readable codes for sharing a
// session. Codes follow the pattern "word-word-number" (e.g., "apple-river-42").
type ShareCodeService struct {
	queries *db.Queries
	rng     *rand.Rand
}

// NewShareCodeService creates a ShareCodeService with its own random source.
func NewShareCodeService(queries *db.Queries) *ShareCodeService {
	return &ShareCodeService{
		queries: queries,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate creates a unique share code, retrying if collisions occur.
// Returns an error if no unique code can be found after 100 attempts.
func (s *ShareCodeService) Generate(ctx context.Context) (string, error) {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		word1 := wordlist[s.rng.Intn(len(wordlist))]
		word2 := wordlist[s.rng.Intn(len(wordlist))]
		num := s.rng.Intn(100)
		code := fmt.Sprintf("%s-%s-%d", word1, word2, num)

		exists, err := s.queries.ShareCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code existence: %w", err)
		}

		if exists == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique code after %d attempts", maxAttempts)
}
