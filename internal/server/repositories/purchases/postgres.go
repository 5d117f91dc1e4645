package purchases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/dbx"
	"github.com/dmitrijs2005/distillr/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Purchase) (bool, error) {
	query :=
		`INSERT INTO purchases (receipt, device_id, platform, is_live)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (receipt) DO NOTHING
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, p.Receipt, p.DeviceID, p.Platform, p.IsLive).Scan(&p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return true, nil
}

func (r *PostgresRepository) GetByReceipt(ctx context.Context, receipt string) (*models.Purchase, error) {
	query :=
		`SELECT receipt, device_id, platform, is_live, created_at FROM purchases
		 WHERE receipt = $1
		 `

	p := &models.Purchase{}
	err := r.db.QueryRowContext(ctx, query, receipt).
		Scan(&p.Receipt, &p.DeviceID, &p.Platform, &p.IsLive, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}
