package postgres

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/aiops/fraud-wizard/internal/domain/fraud"
)

const insertPattern = `INSERT INTO fraud_logs[\s\S]+ON CONFLICT \(id\) DO NOTHING`

func testRecord(created time.Time) *domain.FraudLog {
	return &domain.FraudLog{
		ID:              "log-1",
		TransactionID:   "tx-1",
		RiskScore:       0.9,
		AIReason:        "amount rule fired",
		SuggestedAction: "BLOCK",
		CreatedAt:       created,
	}
}

func TestSaveDuplicateIDIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFraudLogRepository(db)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := testRecord(created)

	mock.ExpectExec(insertPattern).
		WithArgs("log-1", "tx-1", 0.9, "amount rule fired", "BLOCK", created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Replay of the same record hits the conflict clause and affects no row.
	mock.ExpectExec(insertPattern).
		WithArgs("log-1", "tx-1", 0.9, "amount rule fired", "BLOCK", created).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Save(context.Background(), rec))
	require.NoError(t, repo.Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDefaultsZeroCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFraudLogRepository(db)
	rec := testRecord(time.Time{})

	mock.ExpectExec(insertPattern).
		WithArgs("log-1", "tx-1", 0.9, "amount rule fired", "BLOCK", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestOrdersNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFraudLogRepository(db)
	newer := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	older := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "transaction_id", "risk_score", "ai_reason", "suggested_action", "created_at",
	}).
		AddRow("log-2", "tx-2", 0.15, "local ip", "ALLOW", newer).
		AddRow("log-1", "tx-1", 0.9, "amount rule fired", "BLOCK", older)
	mock.ExpectQuery(`FROM fraud_logs[\s\S]+ORDER BY created_at DESC, id DESC`).
		WithArgs(2).
		WillReturnRows(rows)

	out, err := repo.Latest(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "log-2", out[0].ID)
	assert.Equal(t, 0.15, out[0].RiskScore)
	assert.Equal(t, "log-1", out[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestDefaultsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFraudLogRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "transaction_id", "risk_score", "ai_reason", "suggested_action", "created_at",
	})
	mock.ExpectQuery(`FROM fraud_logs`).WithArgs(50).WillReturnRows(rows)

	_, err = repo.Latest(context.Background(), 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
