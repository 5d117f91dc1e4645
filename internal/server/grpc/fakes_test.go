package grpc

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/server/metrics"
	"github.com/dmitrijs2005/distillr/internal/server/models"
	"github.com/dmitrijs2005/distillr/internal/server/services"
)

const testSecret = "secret"

type fakeAccounts struct {
	mu         sync.Mutex
	session    *services.Session
	signInErr  error
	status     *services.Status
	statusErr  error
	confirmed  []models.Purchase
	confirmErr error
}

func (f *fakeAccounts) SignInAnonymously(context.Context) (*services.Session, error) {
	return f.session, f.signInErr
}

func (f *fakeAccounts) Status(_ context.Context, deviceID string) (*services.Status, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakeAccounts) ConfirmPurchase(_ context.Context, p *models.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, *p)
	return f.confirmErr
}

type fakeDistiller struct {
	result *services.DistillResult
	err    error
	urls   []string
}

func (f *fakeDistiller) Distill(_ context.Context, deviceID, url string) (*services.DistillResult, error) {
	f.urls = append(f.urls, url)
	return f.result, f.err
}

type fakePayments struct {
	secret string
	err    error
	live   []bool
}

func (f *fakePayments) CreatePaymentIntent(_ context.Context, isLive bool) (string, error) {
	f.live = append(f.live, isLive)
	return f.secret, f.err
}

func newTestServer(a *fakeAccounts, d *fakeDistiller, p *fakePayments) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop(), metrics.New(), a, d, p, testSecret)
}
