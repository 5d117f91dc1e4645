package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/server/config"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// PaymentService creates Stripe payment intents for the PRO upgrade.
type PaymentService struct {
	secretKey func(isLive bool) string
	amount    int64
	currency  string

	// newIntent is swapped in tests.
	newIntent func(key string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

func NewPaymentService(cfg *config.Config) *PaymentService {
	return &PaymentService{
		secretKey: cfg.StripeSecretKey,
		amount:    cfg.PriceAmount,
		currency:  cfg.PriceCurrency,
		newIntent: func(key string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			c := &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key}
			return c.New(params)
		},
	}
}

// CreatePaymentIntent returns the client secret of a new card payment
// intent in the live or test environment. Without a configured key it
// returns common.ErrPaymentsDisabled.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, isLive bool) (string, error) {
	key := strings.TrimSpace(s.secretKey(isLive))
	if key == "" {
		return "", common.ErrPaymentsDisabled
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(s.amount),
		Currency:           stripe.String(s.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description:        stripe.String("Distillr PRO"),
	}
	params.Context = ctx
	params.AddMetadata("product", "distillr_pro")

	pi, err := s.newIntent(key, params)
	if err != nil {
		return "", fmt.Errorf("error creating payment intent: %w", err)
	}
	if pi.ClientSecret == "" {
		return "", fmt.Errorf("error creating payment intent: empty client secret")
	}
	return pi.ClientSecret, nil
}
