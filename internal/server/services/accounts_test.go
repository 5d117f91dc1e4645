package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/distillr/internal/common"
	"github.com/dmitrijs2005/distillr/internal/server/auth"
	"github.com/dmitrijs2005/distillr/internal/server/config"
	"github.com/dmitrijs2005/distillr/internal/server/models"
	"github.com/dmitrijs2005/distillr/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.SessionValidityDuration = time.Hour
	return cfg
}

func newAccounts(t *testing.T) (*AccountService, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)}
	s := NewAccountService(repomanager.NewInMemoryRepositoryManager(), testConfig())
	s.now = c.Now
	return s, c
}

func TestSignInAnonymously_IssuesVerifiableToken(t *testing.T) {
	s, _ := newAccounts(t)
	s.newUID = func() string { return "anon-1" }

	sess, err := s.SignInAnonymously(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon-1", sess.UID)

	uid, err := auth.GetUIDFromToken(sess.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, "anon-1", uid)
}

func TestStatus_UnknownDeviceHasFullAllowance(t *testing.T) {
	s, _ := newAccounts(t)

	st, err := s.Status(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, &Status{IsPro: false, Remaining: 3}, st)
}

func TestStatus_EmptyDeviceID(t *testing.T) {
	s, _ := newAccounts(t)

	_, err := s.Status(context.Background(), " ")
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestConsume_CountsDownAndResetsAtUTCMidnight(t *testing.T) {
	s, c := newAccounts(t)
	ctx := context.Background()

	for want := 2; want >= 0; want-- {
		st, err := s.Consume(ctx, "dev-1")
		require.NoError(t, err)
		assert.Equal(t, want, st.Remaining)
	}

	_, err := s.Consume(ctx, "dev-1")
	require.ErrorIs(t, err, common.ErrQuotaExhausted)

	// 23:59 UTC is still the same day
	c.t = c.t.Add(89 * time.Minute)
	_, err = s.Consume(ctx, "dev-1")
	require.ErrorIs(t, err, common.ErrQuotaExhausted)

	c.t = c.t.Add(time.Minute)
	st, err := s.Consume(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Remaining)
}

func TestConsume_ZeroAllowance(t *testing.T) {
	s, _ := newAccounts(t)
	s.dailyFreeUses = 0

	_, err := s.Consume(context.Background(), "dev-1")
	require.ErrorIs(t, err, common.ErrQuotaExhausted)
}

func TestConfirmPurchase_MakesDevicePro(t *testing.T) {
	s, _ := newAccounts(t)
	ctx := context.Background()

	for range 3 {
		_, err := s.Consume(ctx, "dev-1")
		require.NoError(t, err)
	}

	require.NoError(t, s.ConfirmPurchase(ctx, &models.Purchase{Receipt: "pi_1", DeviceID: "dev-1", Platform: "web"}))

	st, err := s.Status(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, st.IsPro)

	after, err := s.Consume(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, after.IsPro)
}

func TestConfirmPurchase_ReceiptRules(t *testing.T) {
	s, _ := newAccounts(t)
	ctx := context.Background()

	require.NoError(t, s.ConfirmPurchase(ctx, &models.Purchase{Receipt: "rc-1", DeviceID: "dev-1", Platform: "ios"}))
	require.NoError(t, s.ConfirmPurchase(ctx, &models.Purchase{Receipt: "rc-1", DeviceID: "dev-1", Platform: "ios"}), "replay is idempotent")
	require.ErrorIs(t, s.ConfirmPurchase(ctx, &models.Purchase{Receipt: "rc-1", DeviceID: "dev-2"}), ErrReceiptInUse)

	st, err := s.Status(ctx, "dev-2")
	require.NoError(t, err)
	assert.False(t, st.IsPro)

	require.ErrorIs(t, s.ConfirmPurchase(ctx, &models.Purchase{DeviceID: "dev-3"}), common.ErrInvalidArgument)
	require.ErrorIs(t, s.ConfirmPurchase(ctx, &models.Purchase{Receipt: "rc-2"}), common.ErrInvalidArgument)
}

func TestConfirmPurchase_PostgresTransaction(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	s := NewAccountService(repomanager.NewPostgresRepositoryManager(db), testConfig())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+receipt.*FROM\s+purchases`).WithArgs("pi_9").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT\s+INTO\s+devices\s*\(id,\s*is_pro\)`).WithArgs("dev-9").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT\s+INTO\s+purchases`).WithArgs("pi_9", "dev-9", "web", true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	require.NoError(t, s.ConfirmPurchase(context.Background(), &models.Purchase{Receipt: "pi_9", DeviceID: "dev-9", Platform: "web", IsLive: true}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPurchase_PostgresRollbackOnForeignReceipt(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	s := NewAccountService(repomanager.NewPostgresRepositoryManager(db), testConfig())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+receipt.*FROM\s+purchases`).WithArgs("pi_9").
		WillReturnRows(sqlmock.NewRows([]string{"receipt", "device_id", "platform", "is_live", "created_at"}).
			AddRow("pi_9", "someone-else", "web", false, time.Now()))
	mock.ExpectRollback()

	err = s.ConfirmPurchase(context.Background(), &models.Purchase{Receipt: "pi_9", DeviceID: "dev-9"})
	require.ErrorIs(t, err, ErrReceiptInUse)
	require.NoError(t, mock.ExpectationsWereMet())
}
