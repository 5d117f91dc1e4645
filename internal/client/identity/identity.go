// Package identity resolves the per-installation device identifier.
//
// The identifier is created lazily on first use, written to the local
// key/value store once and returned unchanged for the rest of the
// installation's life. Storage failures never surface to callers; the
// provider falls back to an identifier that lives only as long as the
// process.
package identity

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/google/uuid"
)

// StorageKey is the metadata key holding the device identifier.
const StorageKey = "deviceId"

// Store is the subset of the local key/value store the provider needs.
type Store interface {
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Fingerprinter derives a passive, best-effort device fingerprint.
type Fingerprinter interface {
	Fingerprint(ctx context.Context) (string, error)
}

type Provider struct {
	store    Store
	platform common.Platform
	fp       Fingerprinter
	newID    func() string
	log      logging.Logger

	mu        sync.Mutex
	id        string
	resolved  bool
	ephemeral bool
}

type Option func(*Provider)

// WithFingerprinter sets the probe used on the web platform.
func WithFingerprinter(fp Fingerprinter) Option {
	return func(p *Provider) { p.fp = fp }
}

// WithIDGenerator replaces the random identifier source.
func WithIDGenerator(f func() string) Option {
	return func(p *Provider) { p.newID = f }
}

func WithLogger(l logging.Logger) Option {
	return func(p *Provider) { p.log = l }
}

func NewProvider(store Store, platform common.Platform, opts ...Option) *Provider {
	p := &Provider{
		store:    store,
		platform: platform,
		newID:    uuid.NewString,
		log:      logging.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	p.log = p.log.With("module", "identity")
	return p
}

// GetOrCreate returns the device identifier, creating and persisting it on
// first use. A stored value is returned as-is, even when empty.
func (p *Provider) GetOrCreate(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolved {
		return p.id
	}

	if p.store == nil {
		p.settle(p.generate(ctx), true)
		return p.id
	}

	stored, ok, err := p.store.Lookup(ctx, StorageKey)
	if err != nil {
		p.log.Warn(ctx, "device id storage unavailable, using ephemeral id", "error", err)
		p.settle(p.generate(ctx), true)
		return p.id
	}
	if ok {
		p.settle(string(stored), false)
		return p.id
	}

	id := p.generate(ctx)
	if err := p.store.Set(ctx, StorageKey, []byte(id)); err != nil {
		p.log.Warn(ctx, "device id not persisted, using ephemeral id", "error", err)
		p.settle(id, true)
		return p.id
	}
	p.log.Info(ctx, "device id created", "device_id", id)
	p.settle(id, false)
	return p.id
}

// Ephemeral reports whether the resolved identifier will not survive a restart.
func (p *Provider) Ephemeral() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ephemeral
}

func (p *Provider) settle(id string, ephemeral bool) {
	p.id = id
	p.ephemeral = ephemeral
	p.resolved = true
}

func (p *Provider) generate(ctx context.Context) string {
	if p.platform == common.PlatformWeb && p.fp != nil {
		fp, err := p.fp.Fingerprint(ctx)
		if err == nil && fp != "" {
			return fp
		}
		p.log.Debug(ctx, "fingerprint unavailable", "error", err)
	}
	return p.newID()
}
