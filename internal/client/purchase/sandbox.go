package purchase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var errNotConfigured = errors.New("billing not configured")

// SandboxBilling stands in for the store SDK on a machine with no store. It
// accepts any catalog key and issues random receipts.
type SandboxBilling struct {
	mu         sync.Mutex
	configured bool
}

func NewSandboxBilling() *SandboxBilling {
	return &SandboxBilling{}
}

func (s *SandboxBilling) Configure(_ context.Context, apiKey string) error {
	if apiKey == "" {
		return errors.New("empty catalog key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configured = true
	return nil
}

func (s *SandboxBilling) PurchaseProduct(ctx context.Context, sku string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configured {
		return "", errNotConfigured
	}
	return "sandbox-" + sku + "-" + uuid.NewString(), nil
}
