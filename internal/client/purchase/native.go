package purchase

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/logging"
	"github.com/dmitrijs2005/distillr/internal/rpc"
)

// MsgPurchaseError is shown when a store purchase cannot be completed.
const MsgPurchaseError = "Error when making purchase."

// Store product identifiers of the Pro upgrade.
const (
	SKUAndroid = "distillr.pro.1"
	SKUIOS     = "pro"
)

// Billing is the platform store SDK.
type Billing interface {
	Configure(ctx context.Context, apiKey string) error
	PurchaseProduct(ctx context.Context, sku string) (receipt string, err error)
}

func SKU(p common.Platform) string {
	if p == common.PlatformAndroid {
		return SKUAndroid
	}
	return SKUIOS
}

type NativeFlow struct {
	platform common.Platform
	apiKey   string
	isLive   bool
	billing  Billing
	backend  Backend
	log      logging.Logger
}

func (n *NativeFlow) kind() Kind { return KindNative }

func (n *NativeFlow) open(ctx context.Context, a *Attempt) error {
	if n.billing == nil || n.apiKey == "" {
		return ErrBillingUnavailable
	}
	if err := n.billing.Configure(ctx, n.apiKey); err != nil {
		return fmt.Errorf("%w: %w", ErrBillingUnavailable, err)
	}
	return nil
}

// purchase buys the platform SKU and forwards the receipt. The attempt is
// closed afterwards whatever the result.
func (n *NativeFlow) purchase(ctx context.Context, a *Attempt, _ Card) error {
	defer a.Close()

	err := n.buyAndConfirm(ctx, a)
	if err != nil {
		a.setOutcome(OutcomeFailed)
		a.showError(MsgPurchaseError)
		n.log.Error(ctx, "store purchase failed", "error", err)
		return err
	}
	a.setOutcome(OutcomeSucceeded)
	return nil
}

func (n *NativeFlow) buyAndConfirm(ctx context.Context, a *Attempt) error {
	receipt, err := n.billing.PurchaseProduct(ctx, SKU(n.platform))
	if err != nil {
		return fmt.Errorf("store purchase: %w", err)
	}
	a.setReceipt(receipt)

	ok, err := n.backend.ConfirmPurchase(ctx, rpc.ConfirmPurchaseRequest{
		DeviceID: a.DeviceID,
		Receipt:  receipt,
		Platform: string(n.platform),
		IsLive:   n.isLive,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfirmRejected, err)
	}
	if !ok {
		return ErrConfirmRejected
	}
	return nil
}
