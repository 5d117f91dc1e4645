package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/rpc"
)

const (
	MsgPaymentSucceeded = "Payment successful! You now have unlimited daily uses."
	MsgPaymentFailed    = "Payment failed. Please try again."
	MsgPaidNotConfirmed = "Your payment went through but we could not confirm it yet. " +
		"Submit again to retry the confirmation; you will not be charged twice."
)

// PaymentResult is the processor's answer to a card confirmation.
type PaymentResult struct {
	PaymentIntentID string
	Status          string
}

const StatusSucceeded = "succeeded"

var errNoPaymentResult = errors.New("processor returned no result")

// Processor confirms a card payment against a payment intent client secret.
// A refused payment is reported as *DeclineError.
type Processor interface {
	ConfirmCardPayment(ctx context.Context, clientSecret string, card Card) (*PaymentResult, error)
}

type WebFlow struct {
	isLive     bool
	backend    Backend
	processor  Processor
	closeDelay time.Duration
	log        logging.Logger

	mu           sync.Mutex
	clientSecret string
}

func (w *WebFlow) kind() Kind { return KindWeb }

// ensureIntent returns the held client secret, creating a payment intent
// only when none is held.
func (w *WebFlow) ensureIntent(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.clientSecret != "" {
		return w.clientSecret, nil
	}
	secret, err := w.backend.CreatePaymentIntent(ctx, w.isLive)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoPaymentIntent, err)
	}
	if secret == "" {
		return "", ErrNoPaymentIntent
	}
	w.clientSecret = secret
	return secret, nil
}

// dropIntent forgets a secret whose intent has been paid.
func (w *WebFlow) dropIntent(secret string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.clientSecret == secret {
		w.clientSecret = ""
	}
}

func (w *WebFlow) open(ctx context.Context, a *Attempt) error {
	if w.processor == nil {
		return ErrNoPaymentIntent
	}
	secret, err := w.ensureIntent(ctx)
	if err != nil {
		return err
	}
	a.setPaymentIntent(IntentID(secret))
	return nil
}

func (w *WebFlow) purchase(ctx context.Context, a *Attempt, card Card) error {
	if !a.isCharged() {
		if err := w.charge(ctx, a, card); err != nil {
			return err
		}
	}
	return w.confirm(ctx, a)
}

// charge confirms the card. A failure leaves the attempt open for another
// try and never reaches the backend.
func (w *WebFlow) charge(ctx context.Context, a *Attempt, card Card) error {
	secret, err := w.ensureIntent(ctx)
	if err != nil {
		a.setOutcome(OutcomeFailed)
		a.showError(MsgPaymentFailed)
		return err
	}

	res, err := w.processor.ConfirmCardPayment(ctx, secret, card)
	if err == nil && res == nil {
		err = errNoPaymentResult
	}
	if err == nil && res.Status != StatusSucceeded {
		err = &DeclineError{Message: fmt.Sprintf("payment %s", res.Status)}
	}
	if err != nil {
		msg := MsgPaymentFailed
		var de *DeclineError
		if errors.As(err, &de) && de.Message != "" {
			msg = de.Message
		}
		a.setOutcome(OutcomeFailed)
		a.showError(msg)
		w.log.Info(ctx, "card payment not completed", "error", err)
		return err
	}

	id := res.PaymentIntentID
	if id == "" {
		id = IntentID(secret)
	}
	a.markCharged(id)
	w.dropIntent(secret)
	return nil
}

func (w *WebFlow) confirm(ctx context.Context, a *Attempt) error {
	intentID := a.PaymentIntentID()
	ok, err := w.backend.ConfirmPurchase(ctx, rpc.ConfirmPurchaseRequest{
		DeviceID: a.DeviceID,
		Receipt:  intentID,
		Platform: string(common.PlatformWeb),
		IsLive:   w.isLive,
	})
	if err == nil && !ok {
		err = ErrConfirmRejected
	}
	if err != nil {
		a.setOutcome(OutcomeUnreconciled)
		a.showError(MsgPaidNotConfirmed)
		w.log.Warn(ctx, "payment taken but purchase not confirmed",
			"payment_intent", intentID, "device_id", a.DeviceID, "error", err)
		return fmt.Errorf("%w: %w", ErrPaidNotConfirmed, err)
	}

	a.setOutcome(OutcomeSucceeded)
	a.showSuccess(MsgPaymentSucceeded)
	a.closeAfter(w.closeDelay)
	return nil
}

// IntentID extracts the payment intent id from its client secret
// ("pi_123_secret_abc" yields "pi_123").
func IntentID(clientSecret string) string {
	id, _, _ := strings.Cut(clientSecret, "_secret_")
	return id
}
