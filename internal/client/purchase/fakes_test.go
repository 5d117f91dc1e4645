package purchase

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/distillr/internal/client/entitlement"
	"github.com/dmitrijs2005/distillr/internal/rpc"
)

var errNoSession = errors.New("no session")

type fakeSession struct{ present bool }

func (f fakeSession) Require() error {
	if !f.present {
		return errNoSession
	}
	return nil
}

type fakeBackend struct {
	mu          sync.Mutex
	secrets     []string
	intentErr   error
	intentCalls int
	confirmOK   []bool
	confirmErr  error
	confirms    []rpc.ConfirmPurchaseRequest
}

func (f *fakeBackend) CreatePaymentIntent(_ context.Context, isLive bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intentCalls++
	if f.intentErr != nil {
		return "", f.intentErr
	}
	s := f.secrets[0]
	if len(f.secrets) > 1 {
		f.secrets = f.secrets[1:]
	}
	return s, nil
}

func (f *fakeBackend) ConfirmPurchase(_ context.Context, req rpc.ConfirmPurchaseRequest) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirms = append(f.confirms, req)
	if f.confirmErr != nil {
		return false, f.confirmErr
	}
	ok := f.confirmOK[0]
	if len(f.confirmOK) > 1 {
		f.confirmOK = f.confirmOK[1:]
	}
	return ok, nil
}

func (f *fakeBackend) confirmCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.confirms)
}

type fakeRefresher struct {
	mu      sync.Mutex
	devices []string
	err     error
}

func (f *fakeRefresher) Refresh(_ context.Context, deviceID string) (entitlement.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.devices = append(f.devices, deviceID)
	return entitlement.Snapshot{IsPro: true}, f.err
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.devices)
}

type fakeBilling struct {
	configureErr error
	purchaseErr  error
	receipt      string
	keys         []string
	skus         []string
}

func (f *fakeBilling) Configure(_ context.Context, apiKey string) error {
	f.keys = append(f.keys, apiKey)
	return f.configureErr
}

func (f *fakeBilling) PurchaseProduct(_ context.Context, sku string) (string, error) {
	f.skus = append(f.skus, sku)
	return f.receipt, f.purchaseErr
}

type chargeResult struct {
	res *PaymentResult
	err error
}

type fakeProcessor struct {
	mu      sync.Mutex
	results []chargeResult
	secrets []string
}

func (f *fakeProcessor) ConfirmCardPayment(_ context.Context, clientSecret string, _ Card) (*PaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secrets = append(f.secrets, clientSecret)
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r.res, r.err
}

func (f *fakeProcessor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.secrets)
}

type recordingView struct {
	mu        sync.Mutex
	errors    []string
	successes []string
	closes    int
}

func (v *recordingView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, msg)
}

func (v *recordingView) ShowSuccess(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.successes = append(v.successes, msg)
}

func (v *recordingView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closes++
}

func (v *recordingView) snapshot() (errs, oks []string, closes int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.errors...), append([]string(nil), v.successes...), v.closes
}
