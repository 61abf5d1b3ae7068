package identities

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

const DefaultHashCost = 10

// Hasher performs adaptive password hashing with a bound on concurrency.
// bcrypt is CPU-bound and intentionally slow; the semaphore ensures a burst
// of logins queues on the hashing slots instead of saturating every core
// and starving unrelated requests.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher creates a Hasher with the given bcrypt cost factor and a cap on
// concurrent hashing operations. Zero values fall back to sane defaults.
func NewHasher(cost int, maxConcurrent int64) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultHashCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Hasher{
		cost: cost,
		sem:  semaphore.NewWeighted(maxConcurrent),
	}
}

// Hash derives the storable hash for a password. Blocks while all hashing
// slots are busy; honors ctx cancellation while waiting.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "[Hasher.Hash] acquire")
	}
	defer h.sem.Release(1)

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "[Hasher.Hash] bcrypt")
	}
	return string(bytes), nil
}

// Compare checks a password against a stored hash. Returns false on any
// mismatch or error; the caller never learns why.
func (h *Hasher) Compare(ctx context.Context, hash, password string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
