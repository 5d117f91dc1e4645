package purchase

import (
	"sync"
	"time"
)

type Kind string

const (
	KindNative Kind = "native"
	KindWeb    Kind = "web"
)

type Outcome string

const (
	OutcomePending      Outcome = "pending"
	OutcomeSucceeded    Outcome = "succeeded"
	OutcomeFailed       Outcome = "failed"
	OutcomeUnreconciled Outcome = "unreconciled"
)

// View renders one purchase attempt. Calls arrive with the attempt's lock
// held, so implementations must not call back into the Attempt.
type View interface {
	ShowError(msg string)
	ShowSuccess(msg string)
	// Close is called exactly once when the attempt ends.
	Close()
}

// Attempt is one purchase in progress, alive from Open until Close.
// Results that arrive after Close still run to completion but never reach
// the view.
type Attempt struct {
	Kind     Kind
	DeviceID string

	mu              sync.Mutex
	view            View
	paymentIntentID string
	receipt         string
	outcome         Outcome
	charged         bool
	busy            bool
	closed          bool
	closeTimer      *time.Timer
	done            chan struct{}
}

func newAttempt(kind Kind, deviceID string, view View) *Attempt {
	if view == nil {
		view = nopView{}
	}
	return &Attempt{
		Kind:     kind,
		DeviceID: deviceID,
		view:     view,
		outcome:  OutcomePending,
		done:     make(chan struct{}),
	}
}

func (a *Attempt) PaymentIntentID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paymentIntentID
}

func (a *Attempt) Receipt() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.receipt
}

func (a *Attempt) Outcome() Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}

func (a *Attempt) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Done is closed when the attempt ends.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Close ends the attempt. Repeated calls are no-ops.
func (a *Attempt) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.closeTimer != nil {
		a.closeTimer.Stop()
	}
	close(a.done)
	a.view.Close()
}

func (a *Attempt) closeAfter(d time.Duration) {
	if d <= 0 {
		a.Close()
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closeTimer = time.AfterFunc(d, a.Close)
}

func (a *Attempt) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return false
	}
	a.busy = true
	return true
}

func (a *Attempt) end() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.busy = false
}

func (a *Attempt) setPaymentIntent(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paymentIntentID = id
}

func (a *Attempt) setReceipt(r string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.receipt = r
}

// markCharged records that the processor took the payment.
func (a *Attempt) markCharged(intentID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.charged = true
	a.paymentIntentID = intentID
	a.receipt = intentID
}

func (a *Attempt) isCharged() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.charged
}

func (a *Attempt) setOutcome(o Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcome = o
}

func (a *Attempt) showError(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.view.ShowError(msg)
}

func (a *Attempt) showSuccess(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.view.ShowSuccess(msg)
}

type nopView struct{}

func (nopView) ShowError(string)   {}
func (nopView) ShowSuccess(string) {}
func (nopView) Close()             {}
