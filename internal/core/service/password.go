package service

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/identware/user-service/internal/api/metrics"
)

// DefaultHashCost is the bcrypt work factor applied when the configured cost
// is out of range. Changing it requires a redeploy; it is deliberately not a
// runtime-mutable setting so all stored digests share one cost.
const DefaultHashCost = 12

// PasswordHasher produces and verifies salted bcrypt digests. The digest is
// self-contained: algorithm, cost and salt travel inside the encoded string.
type PasswordHasher struct {
	cost int
	log  zerolog.Logger
}

func NewPasswordHasher(cost int, log zerolog.Logger) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &PasswordHasher{cost: cost, log: log}
}

// Hash derives a digest for plaintext at the configured cost.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	start := time.Now()
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A wrong password is a
// plain false, not an error. A digest that cannot be parsed at all is also
// false; that case gets its own log signal since it indicates corrupt
// stored data rather than a bad guess.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		h.log.Warn().Err(err).Msg("malformed password digest")
	}
	return false
}
