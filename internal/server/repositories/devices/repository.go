// Package devices stores per-device entitlement state: the PRO flag and the
// daily free-use counter.
package devices

import (
	"context"
	"time"

	"github.com/dmitrijs2005/distillr/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound for an unknown device.
	Get(ctx context.Context, id string) (*models.Device, error)
	// Consume records one use on day and returns the day's use count.
	// Counters from an earlier day restart at one. For a non-PRO device
	// already at limit it returns common.ErrQuotaExhausted and changes
	// nothing. limit must be positive.
	Consume(ctx context.Context, id string, day time.Time, limit int) (int, error)
	// SetPro marks the device PRO, creating it when unknown.
	SetPro(ctx context.Context, id string) error
}
