package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/distillr/internal/client/client"
	"github.com/dmitrijs2005/distillr/internal/client/distill"
	"github.com/dmitrijs2005/distillr/internal/client/entitlement"
	"github.com/dmitrijs2005/distillr/internal/client/purchase"
	"github.com/dmitrijs2005/distillr/internal/client/session"
)

func (a *App) prompt() string {
	return promptTag(a.watcher.latest())
}

// replPrompt prints the status line once the entitlement first becomes
// known, then returns the prompt tag.
func (a *App) replPrompt() string {
	if snap, ok := a.watcher.becameKnown(); ok {
		fmt.Fprintln(a.out, statusText(snap, true))
	}
	return a.prompt()
}

func (a *App) Status(ctx context.Context) error {
	fmt.Fprintln(a.out, statusText(a.watcher.latest()))
	if a.identity.Ephemeral() {
		fmt.Fprintln(a.out, ephemeralWarning)
	}
	return nil
}

// Device prints the identifiers this installation uses with the backend.
func (a *App) Device(ctx context.Context) error {
	fmt.Fprintln(a.out, "Device:", a.deviceID)
	if a.identity.Ephemeral() {
		fmt.Fprintln(a.out, ephemeralWarning)
	}
	if s, ok := a.session.Session(); ok {
		line := "Session: " + s.UID
		if !s.ExpiresAt.IsZero() {
			line += ", expires " + s.ExpiresAt.Format(time.RFC3339)
		}
		fmt.Fprintln(a.out, line)
	} else {
		fmt.Fprintln(a.out, "Session: not signed in")
	}
	fmt.Fprintln(a.out, "Purchase flow:", a.purchases.Kind())
	return nil
}

func (a *App) Distill(ctx context.Context, url string) error {
	if !a.distiller.CanSubmit(url) {
		switch {
		case a.store.IsOutOfUses():
			fmt.Fprintln(a.out, distillErrorText(distill.ErrOutOfUses))
			return distill.ErrOutOfUses
		case url == "":
			fmt.Fprintln(a.out, "Usage: distill <url>")
			return distill.ErrInvalidURL
		case !distill.ValidateURL(url):
			fmt.Fprintln(a.out, distill.InputError(url))
			return distill.ErrInvalidURL
		}
	}

	res, err := a.distiller.Submit(ctx, a.deviceID, url)
	if err != nil {
		fmt.Fprintln(a.out, distillErrorText(err))
		return err
	}

	if res.Percent != "" {
		fmt.Fprintln(a.out, compressionLine(res.Percent))
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, res.Text)
	fmt.Fprintln(a.out)

	if snap, ok := a.watcher.latest(); ok && !snap.IsPro {
		fmt.Fprintln(a.out, usesLeft(snap.Remaining))
	}
	return nil
}

func distillErrorText(err error) string {
	switch {
	case errors.Is(err, distill.ErrInFlight):
		return "A request is already running."
	case errors.Is(err, session.ErrNoSession), errors.Is(err, distill.ErrEntitlementUnknown):
		return "Still connecting, try again in a moment."
	case errors.Is(err, distill.ErrOutOfUses):
		return "You have no daily uses left. Type 'purchase' to get PRO."
	default:
		return "Error: " + distill.FailureMessage
	}
}

// Purchase runs one purchase attempt through the configured flow.
func (a *App) Purchase(ctx context.Context) error {
	if snap, ok := a.watcher.latest(); ok && snap.IsPro {
		fmt.Fprintln(a.out, "You already have Distillr PRO.")
		return nil
	}

	view := &termView{out: a.out}
	attempt, err := a.purchases.Open(ctx, a.deviceID, view)
	if err != nil {
		fmt.Fprintln(a.out, purchaseOpenErrorText(err))
		return err
	}
	defer attempt.Close()

	if attempt.Kind == purchase.KindNative {
		err = a.purchaseNative(ctx, attempt)
	} else {
		err = a.purchaseWeb(ctx, attempt)
	}
	if err == nil {
		fmt.Fprintln(a.out, statusText(a.watcher.latest()))
	}
	return err
}

func purchaseOpenErrorText(err error) string {
	switch {
	case errors.Is(err, session.ErrNoSession), errors.Is(err, entitlement.ErrNoDeviceID):
		return "Still connecting, try again in a moment."
	case errors.Is(err, purchase.ErrBillingUnavailable):
		return "In-app purchases are not available on this device."
	case errors.Is(err, client.ErrPaymentsDisabled):
		return "Card payments are not enabled on this server."
	case errors.Is(err, purchase.ErrNoPaymentIntent):
		return "Payments are not available right now. Please try again later."
	default:
		return "Error: " + err.Error()
	}
}

func (a *App) purchaseNative(ctx context.Context, attempt *purchase.Attempt) error {
	ok, err := Confirm(a.reader, fmt.Sprintf("Buy Distillr PRO (%s)?", purchase.SKU(a.config.Platform)), a.out)
	if err != nil || !ok {
		fmt.Fprintln(a.out, "Purchase cancelled.")
		return err
	}
	return a.purchases.Purchase(ctx, attempt, purchase.Card{})
}

// purchaseWeb collects a card and submits until the payment succeeds, the
// user gives up, or the attempt closes.
func (a *App) purchaseWeb(ctx context.Context, attempt *purchase.Attempt) error {
	fmt.Fprintf(a.out, "Payment %s. Leave the card number empty to cancel.\n", attempt.PaymentIntentID())

	for !attempt.Closed() {
		var card purchase.Card
		if attempt.Outcome() == purchase.OutcomeUnreconciled {
			retry, err := Confirm(a.reader, "Retry confirming your payment?", a.out)
			if err != nil || !retry {
				fmt.Fprintf(a.out, "Keep this payment reference for support: %s\n", attempt.PaymentIntentID())
				return purchase.ErrPaidNotConfirmed
			}
		} else {
			c, ok, err := a.readCard()
			if err != nil || !ok {
				fmt.Fprintln(a.out, "Purchase cancelled.")
				return err
			}
			card = c
		}

		err := a.purchases.Purchase(ctx, attempt, card)
		switch {
		case err == nil:
			<-attempt.Done()
			return nil
		case errors.Is(err, purchase.ErrAttemptClosed), errors.Is(err, purchase.ErrBusy):
			return err
		}
		// the flow has shown its message; the form stays open for another try
		a.log.Debug(ctx, "web purchase step failed", "outcome", attempt.Outcome(), "error", err)
	}
	return nil
}

// readCard prompts for card details. ok is false when the user cancels.
func (a *App) readCard() (purchase.Card, bool, error) {
	number, err := GetSecret(a.reader, "Card number", a.out)
	if err != nil || number == "" {
		return purchase.Card{}, false, err
	}
	if strings.HasPrefix(number, "pm_") {
		return purchase.Card{PaymentMethod: number}, true, nil
	}

	expiry, err := GetSimpleText(a.reader, "Expiry (MM/YY)", a.out)
	if err != nil {
		return purchase.Card{}, false, err
	}
	month, year, found := strings.Cut(expiry, "/")
	if !found {
		fmt.Fprintln(a.out, "Expiry must look like MM/YY.")
		return a.readCard()
	}
	cvc, err := GetSecret(a.reader, "CVC", a.out)
	if err != nil {
		return purchase.Card{}, false, err
	}
	postal, err := GetSimpleText(a.reader, "Postal code (optional)", a.out)
	if err != nil {
		return purchase.Card{}, false, err
	}

	return purchase.Card{
		Number:     strings.ReplaceAll(number, " ", ""),
		ExpMonth:   strings.TrimSpace(month),
		ExpYear:    strings.TrimSpace(year),
		CVC:        cvc,
		PostalCode: postal,
	}, true, nil
}
