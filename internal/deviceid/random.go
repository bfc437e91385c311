package deviceid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand/v2"
	"sync"
	"time"
)

// RandomSource yields n random bytes for identifier generation.
type RandomSource interface {
	RandomBytes(n int) ([]byte, error)
}

// CryptoSource reads from the operating system CSPRNG.
type CryptoSource struct{}

func (CryptoSource) RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("reading crypto random: %w", err)
	}

	return b, nil
}

// PRNGSource is the software fallback used when no strong source is available.
type PRNGSource struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

func NewPRNGSource(seed int64) *PRNGSource {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], uint64(seed))
	binary.LittleEndian.PutUint64(s[8:16], uint64(time.Now().UnixNano()))

	return &PRNGSource{rng: mathrand.New(mathrand.NewChaCha8(s))}
}

func (p *PRNGSource) RandomBytes(n int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b := make([]byte, n)
	for i := 0; i < n; i += 8 {
		var chunk [8]byte
		binary.LittleEndian.PutUint64(chunk[:], p.rng.Uint64())
		copy(b[i:], chunk[:])
	}

	return b, nil
}

type fallbackSource struct {
	primary   RandomSource
	secondary RandomSource
}

// WithFallback tries primary first and switches to secondary when primary fails
// or returns a short read.
func WithFallback(primary, secondary RandomSource) RandomSource {
	return &fallbackSource{primary: primary, secondary: secondary}
}

func (f *fallbackSource) RandomBytes(n int) ([]byte, error) {
	if f.primary != nil {
		if b, err := f.primary.RandomBytes(n); err == nil && len(b) >= n {
			return b[:n], nil
		}
	}

	return f.secondary.RandomBytes(n)
}

// DefaultSource prefers the OS CSPRNG and falls back to a seeded PRNG.
func DefaultSource() RandomSource {
	return WithFallback(CryptoSource{}, NewPRNGSource(time.Now().UnixNano()))
}
