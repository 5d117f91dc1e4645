package devices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Device, error) {
	query :=
		`SELECT id, is_pro, uses_day, uses_count, created_at, updated_at FROM devices
		 WHERE id = $1
		 `

	d := &models.Device{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&d.ID, &d.IsPro, &d.UsesDay, &d.UsesCount, &d.CreatedAt, &d.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}

// Consume relies on the conditional upsert: when the WHERE clause rejects
// the update no row is returned.
func (r *PostgresRepository) Consume(ctx context.Context, id string, day time.Time, limit int) (int, error) {
	query :=
		`INSERT INTO devices (id, uses_day, uses_count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (id) DO UPDATE SET
		     uses_count = CASE WHEN devices.uses_day = EXCLUDED.uses_day THEN devices.uses_count + 1 ELSE 1 END,
		     uses_day = EXCLUDED.uses_day,
		     updated_at = now()
		 WHERE devices.is_pro OR devices.uses_day <> EXCLUDED.uses_day OR devices.uses_count < $3
		 RETURNING uses_count
		 `

	var used int
	err := r.db.QueryRowContext(ctx, query, id, day, limit).Scan(&used)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrQuotaExhausted
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return used, nil
}

func (r *PostgresRepository) SetPro(ctx context.Context, id string) error {
	query :=
		`INSERT INTO devices (id, is_pro)
		 VALUES ($1, TRUE)
		 ON CONFLICT (id) DO UPDATE SET is_pro = TRUE, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
