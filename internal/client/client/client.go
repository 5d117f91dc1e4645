package client

import (
	"context"

	"github.com/dmitrijs2005/distillr/internal/rpc"
)

// Client is the transport-agnostic contract for the four remote operations
// plus anonymous sign-in. Implementations must be safe for concurrent use.
type Client interface {
	Close() error
	SignInAnonymously(ctx context.Context) (*rpc.SignInResponse, error)
	// SetSessionToken installs the token sent with every later call.
	SetSessionToken(token string)
	CheckUserStatus(ctx context.Context, deviceID string) (*rpc.StatusResponse, error)
	Distill(ctx context.Context, deviceID, url string) (*rpc.DistillResponse, error)
	CreatePaymentIntent(ctx context.Context, isLive bool) (string, error)
	ConfirmPurchase(ctx context.Context, req rpc.ConfirmPurchaseRequest) (bool, error)
}
