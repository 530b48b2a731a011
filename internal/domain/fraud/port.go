package fraud

import "context"

// Explainer port (interface for the external narrative generator)
type Explainer interface {
	Explain(ctx context.Context, tx Transaction, scoring ScoringResult) (Explanation, error)
	// Model identifies the configured model for envelope metadata.
	Model() string
}

// LogRepository port (interface for fraud_logs persistence)
type LogRepository interface {
	Save(ctx context.Context, rec *FraudLog) error
	Latest(ctx context.Context, limit int) ([]*FraudLog, error)
}

// EnvelopeArchive port (interface for best-effort envelope archival)
type EnvelopeArchive interface {
	Store(ctx context.Context, requestID string, envelope []byte) error
}
