// Package distill submits URLs for summarisation, one at a time, and keeps
// the entitlement snapshot in line with the backend's quota accounting.
package distill

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/distillr/internal/client/entitlement"
	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/rpc"
)

// FailureMessage is the generic text shown for any failed distill.
const FailureMessage = "Could not process request"

var (
	ErrInvalidURL = errors.New("invalid url")
	// ErrInFlight is returned, without side effects, while another submit runs.
	ErrInFlight           = errors.New("distill already in flight")
	ErrEntitlementUnknown = errors.New("entitlement not loaded yet")
	ErrOutOfUses          = errors.New("no uses left today")
	ErrDistillFailed      = errors.New("could not process request")
)

type Distiller interface {
	Distill(ctx context.Context, deviceID, url string) (*rpc.DistillResponse, error)
}

type Entitlements interface {
	Snapshot() (entitlement.Snapshot, bool)
	IsOutOfUses() bool
	ApplyConsumption(ctx context.Context, remaining int) (entitlement.Snapshot, bool)
}

type SessionChecker interface {
	Require() error
}

// Result is one successful distill.
type Result struct {
	Text      string
	Percent   string
	Remaining int
}

type Coordinator struct {
	client   Distiller
	store    Entitlements
	session  SessionChecker
	log      logging.Logger
	inFlight atomic.Bool
}

func NewCoordinator(client Distiller, store Entitlements, session SessionChecker, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.Nop()
	}
	return &Coordinator{
		client:  client,
		store:   store,
		session: session,
		log:     log.With("module", "distill"),
	}
}

func (c *Coordinator) InFlight() bool {
	return c.inFlight.Load()
}

// CanSubmit reports whether the primary action should be enabled for url.
func (c *Coordinator) CanSubmit(url string) bool {
	return ValidateURL(url) && !c.InFlight() && !c.store.IsOutOfUses()
}

// Submit distills url for deviceID. Whenever the backend answers, its
// remaining count replaces the local one, even if the summary came back
// empty. A missing answer leaves the snapshot untouched.
func (c *Coordinator) Submit(ctx context.Context, deviceID, url string) (*Result, error) {
	if !ValidateURL(url) {
		return nil, ErrInvalidURL
	}
	if err := c.session.Require(); err != nil {
		return nil, err
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer c.inFlight.Store(false)

	snap, known := c.store.Snapshot()
	if !known {
		return nil, ErrEntitlementUnknown
	}
	if !snap.Entitled() {
		return nil, ErrOutOfUses
	}
	if deviceID == "" {
		return nil, entitlement.ErrNoDeviceID
	}

	resp, err := c.client.Distill(ctx, deviceID, url)
	if err != nil {
		c.log.Warn(ctx, "distill failed", "url", url, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrDistillFailed, err)
	}
	if resp == nil {
		c.log.Warn(ctx, "distill returned no result", "url", url)
		return nil, ErrDistillFailed
	}

	after, _ := c.store.ApplyConsumption(ctx, resp.Remaining)
	if resp.Text == "" {
		c.log.Warn(ctx, "distill returned no text", "url", url, "remaining", after.Remaining)
		return nil, ErrDistillFailed
	}
	c.log.Info(ctx, "distilled", "url", url, "percent", resp.Percent, "remaining", after.Remaining)

	return &Result{Text: resp.Text, Percent: resp.Percent, Remaining: resp.Remaining}, nil
}
