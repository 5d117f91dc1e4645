// Package services contains the development backend's business logic:
// anonymous sessions, the per-device daily quota, PRO purchases, page
// distillation, and payment intents.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/dbx"
	"github.com/dmitrijs2005/distillr/internal/server/auth"
	"github.com/dmitrijs2005/distillr/internal/server/config"
	"github.com/dmitrijs2005/distillr/internal/server/models"
	"github.com/dmitrijs2005/distillr/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ErrReceiptInUse is returned when a receipt was already redeemed by another
// device.
var ErrReceiptInUse = errors.New("receipt already redeemed by another device")

// Session is what SignInAnonymously hands back to the client.
type Session struct {
	UID   string
	Token string
}

// Status is a device's entitlement as the client sees it.
type Status struct {
	IsPro     bool
	Remaining int
}

// AccountService owns sessions, the daily quota, and the PRO flag.
type AccountService struct {
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	sessionValidity time.Duration
	dailyFreeUses   int
	now             func() time.Time
	newUID          func() string
}

func NewAccountService(m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		dailyFreeUses:   cfg.DailyFreeUses,
		now:             time.Now,
		newUID:          uuid.NewString,
	}
}

// SignInAnonymously mints a fresh anonymous identity and its session token.
func (s *AccountService) SignInAnonymously(ctx context.Context) (*Session, error) {
	uid := s.newUID()
	token, err := auth.GenerateToken(uid, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, fmt.Errorf("error generating session token: %w", err)
	}
	return &Session{UID: uid, Token: token}, nil
}

// today is the current UTC date; the quota resets at UTC midnight.
func (s *AccountService) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Status reports entitlement for deviceID. Unknown devices are not PRO and
// have the full daily allowance.
func (s *AccountService) Status(ctx context.Context, deviceID string) (*Status, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, common.ErrInvalidArgument
	}

	d, err := s.repomanager.Devices(s.repomanager.DB()).Get(ctx, deviceID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading device: %w", err)
	}

	if d != nil && d.IsPro {
		return &Status{IsPro: true, Remaining: s.dailyFreeUses}, nil
	}
	return &Status{Remaining: d.Remaining(s.today(), s.dailyFreeUses)}, nil
}

// Consume charges one distill against deviceID and returns the status
// afterwards. Non-PRO devices at their limit get common.ErrQuotaExhausted.
func (s *AccountService) Consume(ctx context.Context, deviceID string) (*Status, error) {
	st, err := s.Status(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if !st.IsPro && st.Remaining <= 0 {
		return nil, common.ErrQuotaExhausted
	}

	limit := max(s.dailyFreeUses, 1)
	used, err := s.repomanager.Devices(s.repomanager.DB()).Consume(ctx, deviceID, s.today(), limit)
	if err != nil {
		if errors.Is(err, common.ErrQuotaExhausted) {
			return nil, err
		}
		return nil, fmt.Errorf("error consuming quota: %w", err)
	}

	if st.IsPro {
		return st, nil
	}
	return &Status{Remaining: max(s.dailyFreeUses-used, 0)}, nil
}

// ConfirmPurchase records p and marks its device PRO. Replaying a receipt
// for the same device succeeds again; a receipt held by another device
// yields ErrReceiptInUse.
func (s *AccountService) ConfirmPurchase(ctx context.Context, p *models.Purchase) error {
	if strings.TrimSpace(p.DeviceID) == "" || strings.TrimSpace(p.Receipt) == "" {
		return common.ErrInvalidArgument
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		purchases := s.repomanager.Purchases(tx)
		devices := s.repomanager.Devices(tx)

		existing, err := purchases.GetByReceipt(ctx, p.Receipt)
		switch {
		case err == nil && existing.DeviceID != p.DeviceID:
			return ErrReceiptInUse
		case err == nil:
			return devices.SetPro(ctx, p.DeviceID)
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error loading purchase: %w", err)
		}

		if err := devices.SetPro(ctx, p.DeviceID); err != nil {
			return fmt.Errorf("error setting pro: %w", err)
		}
		created, err := purchases.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("error recording purchase: %w", err)
		}
		if !created {
			// a concurrent confirm recorded the receipt first
			winner, err := purchases.GetByReceipt(ctx, p.Receipt)
			if err != nil {
				return fmt.Errorf("error loading purchase: %w", err)
			}
			if winner.DeviceID != p.DeviceID {
				return ErrReceiptInUse
			}
		}
		return nil
	})
}
