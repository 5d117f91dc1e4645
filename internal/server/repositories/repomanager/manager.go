package repomanager

import (
	"context"

	"github.com/dmitrijs2005/distillr/internal/dbx"
	"github.com/dmitrijs2005/distillr/internal/server/repositories/devices"
	"github.com/dmitrijs2005/distillr/internal/server/repositories/purchases"
)

// RepositoryManager vends repositories bound to a connection or transaction.
//
// Services read through DB() and group writes with WithTx:
//
//	err := m.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
//	    return m.Devices(tx).SetPro(ctx, id)
//	})
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	DB() dbx.DBTX
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Devices(db dbx.DBTX) devices.Repository
	Purchases(db dbx.DBTX) purchases.Repository
	Close() error
}
