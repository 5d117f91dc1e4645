package purchase

import (
	"context"
	"errors"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeProcessor confirms payment intents with a publishable key, the way a
// browser checkout does.
type StripeProcessor struct {
	confirm func(id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error)
}

func NewStripeProcessor(publishableKey string) *StripeProcessor {
	c := &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: strings.TrimSpace(publishableKey)}
	return &StripeProcessor{confirm: c.Confirm}
}

func (p *StripeProcessor) ConfirmCardPayment(ctx context.Context, clientSecret string, card Card) (*PaymentResult, error) {
	id := IntentID(clientSecret)
	if id == "" || id == clientSecret {
		return nil, ErrNoPaymentIntent
	}

	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx
	params.AddExtra("client_secret", clientSecret)
	if card.PaymentMethod != "" {
		params.PaymentMethod = stripe.String(card.PaymentMethod)
	} else {
		params.AddExtra("payment_method_data[type]", "card")
		params.AddExtra("payment_method_data[card][number]", card.Number)
		params.AddExtra("payment_method_data[card][exp_month]", card.ExpMonth)
		params.AddExtra("payment_method_data[card][exp_year]", card.ExpYear)
		params.AddExtra("payment_method_data[card][cvc]", card.CVC)
		if card.PostalCode != "" {
			params.AddExtra("payment_method_data[billing_details][address][postal_code]", card.PostalCode)
		}
	}

	pi, err := p.confirm(id, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && (se.Type == stripe.ErrorTypeCard || se.Code == stripe.ErrorCodeCardDeclined) {
			return nil, &DeclineError{Message: se.Msg}
		}
		return nil, err
	}
	return &PaymentResult{PaymentIntentID: pi.ID, Status: string(pi.Status)}, nil
}
