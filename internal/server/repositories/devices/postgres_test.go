package devices

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock, db
}

var (
	qGet     = `(?s)^SELECT\s+id,\s*is_pro,\s*uses_day,\s*uses_count,\s*created_at,\s*updated_at\s+FROM\s+devices\s+WHERE\s+id\s*=\s*\$1`
	qConsume = `(?s)^INSERT\s+INTO\s+devices\s*\(id,\s*uses_day,\s*uses_count\).*ON\s+CONFLICT\s*\(id\)\s+DO\s+UPDATE.*WHERE\s+devices\.is_pro.*RETURNING\s+uses_count`
	qSetPro  = `(?s)^INSERT\s+INTO\s+devices\s*\(id,\s*is_pro\).*ON\s+CONFLICT\s*\(id\)\s+DO\s+UPDATE\s+SET\s+is_pro\s*=\s*TRUE`
)

func TestGet_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(qGet).WithArgs("dev-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_pro", "uses_day", "uses_count", "created_at", "updated_at"}).
			AddRow("dev-1", true, day, 2, ts, ts))

	got, err := repo.Get(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "dev-1", got.ID)
	assert.True(t, got.IsPro)
	assert.Equal(t, day, got.UsesDay)
	assert.Equal(t, 2, got.UsesCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(qGet).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGet_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(qGet).WithArgs("dev-1").WillReturnError(errors.New("db down"))

	_, err := repo.Get(context.Background(), "dev-1")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestConsume_ReturnsCount(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(qConsume).WithArgs("dev-1", day, 3).
		WillReturnRows(sqlmock.NewRows([]string{"uses_count"}).AddRow(2))

	used, err := repo.Consume(context.Background(), "dev-1", day, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, used)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConsume_NoRowMeansExhausted(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(qConsume).WithArgs("dev-1", day, 3).
		WillReturnRows(sqlmock.NewRows([]string{"uses_count"}))

	_, err := repo.Consume(context.Background(), "dev-1", day, 3)
	require.ErrorIs(t, err, common.ErrQuotaExhausted)
}

func TestConsume_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(qConsume).WillReturnError(errors.New("boom"))

	_, err := repo.Consume(context.Background(), "dev-1", time.Now(), 3)
	require.ErrorContains(t, err, "db error: boom")
	assert.NotErrorIs(t, err, common.ErrQuotaExhausted)
}

func TestSetPro(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(qSetPro).WithArgs("dev-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetPro(context.Background(), "dev-1"))

	mock.ExpectExec(qSetPro).WithArgs("dev-2").WillReturnError(errors.New("locked"))
	require.ErrorContains(t, repo.SetPro(context.Background(), "dev-2"), "db error: locked")

	require.NoError(t, mock.ExpectationsWereMet())
}
