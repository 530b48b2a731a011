package mysql

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/aiops/fraud-wizard/internal/domain/fraud"
)

func TestSaveDuplicateIDIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewFraudLogRepository(db)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &domain.FraudLog{
		ID:              "log-1",
		TransactionID:   "tx-1",
		RiskScore:       0.9,
		AIReason:        "amount rule fired",
		SuggestedAction: "BLOCK",
		CreatedAt:       created,
	}

	const insertPattern = `INSERT IGNORE INTO fraud_logs`
	mock.ExpectExec(insertPattern).
		WithArgs("log-1", "tx-1", 0.9, "amount rule fired", "BLOCK", created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Replay of the same record is ignored by the primary key.
	mock.ExpectExec(insertPattern).
		WithArgs("log-1", "tx-1", 0.9, "amount rule fired", "BLOCK", created).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Save(context.Background(), rec))
	require.NoError(t, repo.Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}
