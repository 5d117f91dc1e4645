// Package purchase drives the one-time Pro purchase to completion.
//
// Two flows exist: store billing on ios and android, card payment on web.
// The flow is chosen once from the platform. Both end in the same place: the
// backend confirms the purchase and the entitlement store is refreshed. This
// package never grants entitlement itself.
package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/distillr/internal/client/entitlement"
	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/rpc"
)

const DefaultSuccessCloseDelay = 3 * time.Second

// Backend is the part of the RPC client the purchase flows call.
type Backend interface {
	CreatePaymentIntent(ctx context.Context, isLive bool) (string, error)
	ConfirmPurchase(ctx context.Context, req rpc.ConfirmPurchaseRequest) (bool, error)
}

type Refresher interface {
	Refresh(ctx context.Context, deviceID string) (entitlement.Snapshot, error)
}

type SessionChecker interface {
	Require() error
}

// Card is the payment method entered on web. PaymentMethod, when set, is a
// processor-side token used instead of raw card fields.
type Card struct {
	Number        string
	ExpMonth      string
	ExpYear       string
	CVC           string
	PostalCode    string
	PaymentMethod string
}

// flow is implemented by NativeFlow and WebFlow only.
type flow interface {
	kind() Kind
	open(ctx context.Context, a *Attempt) error
	purchase(ctx context.Context, a *Attempt, card Card) error
}

type Config struct {
	Platform          common.Platform
	IsLive            bool
	StoreAPIKey       string
	SuccessCloseDelay time.Duration

	Backend   Backend
	Session   SessionChecker
	Refresher Refresher
	Billing   Billing
	Processor Processor
	Logger    logging.Logger
}

type Orchestrator struct {
	flow      flow
	session   SessionChecker
	refresher Refresher
	log       logging.Logger
}

// New selects the flow for cfg.Platform.
func New(cfg Config) (*Orchestrator, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("module", "purchase")

	o := &Orchestrator{session: cfg.Session, refresher: cfg.Refresher, log: log}

	switch {
	case cfg.Platform.Native():
		o.flow = &NativeFlow{
			platform: cfg.Platform,
			apiKey:   cfg.StoreAPIKey,
			isLive:   cfg.IsLive,
			billing:  cfg.Billing,
			backend:  cfg.Backend,
			log:      log,
		}
	case cfg.Platform == common.PlatformWeb:
		delay := cfg.SuccessCloseDelay
		if delay == 0 {
			delay = DefaultSuccessCloseDelay
		}
		o.flow = &WebFlow{
			isLive:     cfg.IsLive,
			backend:    cfg.Backend,
			processor:  cfg.Processor,
			closeDelay: delay,
			log:        log,
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, cfg.Platform)
	}
	return o, nil
}

func (o *Orchestrator) Kind() Kind {
	return o.flow.kind()
}

// Open starts an attempt for deviceID. If the flow's prerequisite fails the
// attempt is returned already closed together with the error.
func (o *Orchestrator) Open(ctx context.Context, deviceID string, view View) (*Attempt, error) {
	if err := o.session.Require(); err != nil {
		return nil, err
	}
	if deviceID == "" {
		return nil, entitlement.ErrNoDeviceID
	}

	a := newAttempt(o.flow.kind(), deviceID, view)
	if err := o.flow.open(ctx, a); err != nil {
		o.log.Warn(ctx, "purchase unavailable", "kind", a.Kind, "error", err)
		a.Close()
		return a, err
	}
	return a, nil
}

// Purchase runs the purchase step of the active flow. A confirmed purchase
// refreshes the entitlement store, even if the attempt was closed meanwhile.
func (o *Orchestrator) Purchase(ctx context.Context, a *Attempt, card Card) error {
	if a.Closed() {
		return ErrAttemptClosed
	}
	if !a.begin() {
		return ErrBusy
	}
	defer a.end()

	if err := o.flow.purchase(ctx, a, card); err != nil {
		return err
	}

	o.log.Info(ctx, "purchase confirmed", "kind", a.Kind, "receipt", a.Receipt())
	if _, err := o.refresher.Refresh(ctx, a.DeviceID); err != nil {
		o.log.Warn(ctx, "entitlement refresh after purchase failed", "error", err)
	}
	return nil
}
