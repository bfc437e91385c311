// Package deviceid produces and persists the per-device identifier used to
// correlate a guest cart with its owner before authentication.
package deviceid

import (
	"context"
	"log/slog"
	"sync"
)

const DefaultKey = "device_id"

type Option func(*Provider)

func WithKey(key string) Option {
	return func(p *Provider) { p.key = key }
}

func WithRandomSource(src RandomSource) Option {
	return func(p *Provider) { p.random = src }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// WithOnDegraded registers a callback fired each time the provider falls back
// to its in-memory identifier.
func WithOnDegraded(fn func(err error)) Option {
	return func(p *Provider) { p.onDegraded = fn }
}

type Provider struct {
	mu         sync.Mutex
	storage    Storage
	random     RandomSource
	fallback   RandomSource
	key        string
	logger     *slog.Logger
	onDegraded func(err error)

	// current is the identifier handed out by this instance; it survives
	// storage outages so repeated calls stay stable.
	current  string
	degraded bool
}

func NewProvider(storage Storage, opts ...Option) *Provider {
	p := &Provider{
		storage: storage,
		random:  DefaultSource(),
		key:     DefaultKey,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.fallback = NewPRNGSource(int64(len(p.key)))

	return p
}

// GetDeviceID returns the stored identifier, generating and persisting one when
// none is stored or the stored value is not a uuid-v4. It never fails: when
// storage is unusable the identifier lives in memory for this instance only.
func (p *Provider) GetDeviceID(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.storage == nil {
		return p.inMemory(ErrStorageUnavailable)
	}

	stored, found, err := p.storage.Get(ctx, p.key)
	if err != nil {
		return p.inMemory(err)
	}

	if found && IsValid(stored) {
		p.current = stored
		p.degraded = false
		return stored
	}

	if found {
		p.logger.Warn("Stored device id is invalid, regenerating", slog.String("key", p.key))
	}

	id := p.current
	if id == "" {
		id = p.generate()
	}

	if err := p.storage.Set(ctx, p.key, id); err != nil {
		p.current = id
		return p.inMemory(err)
	}

	p.current = id
	p.degraded = false

	return id
}

// HasDeviceID reports whether a valid identifier exists without creating one.
func (p *Provider) HasDeviceID(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.storage == nil {
		return IsValid(p.current)
	}

	stored, found, err := p.storage.Get(ctx, p.key)
	if err != nil {
		return IsValid(p.current)
	}

	return (found && IsValid(stored)) || (p.degraded && IsValid(p.current))
}

// Persistent is false while the provider serves an in-memory identifier,
// and from construction when it has no storage at all.
func (p *Provider) Persistent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.storage != nil && !p.degraded
}

func (p *Provider) inMemory(cause error) string {
	if p.current == "" {
		p.current = p.generate()
	}

	if !p.degraded {
		p.logger.Warn("Device storage unavailable, using in-memory device id",
			slog.String("key", p.key), slog.Any("error", cause))
	}
	p.degraded = true

	if p.onDegraded != nil {
		p.onDegraded(cause)
	}

	return p.current
}

func (p *Provider) generate() string {
	id, err := NewV4(p.random)
	if err == nil {
		return id
	}

	p.logger.Warn("Random source failed, using software generator", slog.Any("error", err))

	// The PRNG source cannot fail and always yields 16 bytes.
	id, _ = NewV4(p.fallback)
	return id
}
