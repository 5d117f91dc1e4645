// Package purchases records confirmed PRO purchases, one row per receipt.
package purchases

import (
	"context"

	"github.com/dmitrijs2005/distillr/internal/server/models"
)

type Repository interface {
	// Create stores p unless its receipt is already recorded. It reports
	// whether a new row was written.
	Create(ctx context.Context, p *models.Purchase) (bool, error)
	// GetByReceipt returns common.ErrorNotFound for an unknown receipt.
	GetByReceipt(ctx context.Context, receipt string) (*models.Purchase, error)
}
