package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/aiops/fraud-wizard/internal/domain/fraud"
)

type FraudLogRepository struct {
	db *sql.DB
}

func NewFraudLogRepository(db *sql.DB) *FraudLogRepository {
	return &FraudLogRepository{db: db}
}

// Save inserts a fraud log record. INSERT IGNORE keeps the write idempotent
// on the primary key, matching the postgres ON CONFLICT behavior.
func (r *FraudLogRepository) Save(ctx context.Context, rec *domain.FraudLog) error {
	const q = `
INSERT IGNORE INTO fraud_logs
  (id, transaction_id, risk_score, ai_reason, suggested_action, created_at)
VALUES (?,?,?,?,?,?);
`
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.TransactionID, rec.RiskScore, rec.AIReason, rec.SuggestedAction, createdAt)
	return err
}

// Latest returns the most recent records, newest first.
func (r *FraudLogRepository) Latest(ctx context.Context, limit int) ([]*domain.FraudLog, error) {
	if limit <= 0 {
		limit = 50
	}

	const q = `
SELECT id, transaction_id, risk_score, ai_reason, suggested_action, created_at
FROM fraud_logs
ORDER BY created_at DESC, id DESC
LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.FraudLog
	for rows.Next() {
		var rec domain.FraudLog
		if err := rows.Scan(&rec.ID, &rec.TransactionID, &rec.RiskScore,
			&rec.AIReason, &rec.SuggestedAction, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
