package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/aiops/fraud-wizard/internal/application"
	"github.com/aiops/fraud-wizard/internal/domain/fraud"
)

// Persistence and archival are best-effort side effects with their own
// timeout so the request's resource lifetime stays bounded.
const sideEffectTimeout = 3 * time.Second

// ErrStoreUnavailable is returned by Alerts when no log store is configured.
var ErrStoreUnavailable = errors.New("fraud log store unavailable")

// MetricsRecorder counts pipeline outcomes. The transport layer supplies an
// implementation backed by its counters; a nil recorder disables counting.
type MetricsRecorder interface {
	Analysis(riskLevel string)
	Fallback(reason string)
}

// Service implements the analysis pipeline use-cases.
// All dependencies except the clock are optional: a nil Explainer means no
// provider credential is configured, a nil Logs means no persistence store,
// a nil Archive means no object storage. Absence degrades behavior, never
// fails a request.
type Service struct {
	Explainer fraud.Explainer
	Logs      fraud.LogRepository
	Archive   fraud.EnvelopeArchive
	Metrics   MetricsRecorder
	Clock     application.Clock
}

func (s *Service) countAnalysis(riskLevel string) {
	if s.Metrics != nil {
		s.Metrics.Analysis(riskLevel)
	}
}

func (s *Service) countFallback(reason string) {
	if s.Metrics != nil {
		s.Metrics.Fallback(reason)
	}
}

// Analyze runs the full pipeline: rule scoring, explanation (with
// deterministic fallback), envelope assembly, then best-effort persistence
// and archival. It never returns an error; defects in the pure path are
// caught at this boundary and reported as a hard-failure envelope.
func (s *Service) Analyze(ctx context.Context, tx fraud.Transaction) (env *fraud.Envelope) {
	now := s.Clock.Now().UTC()
	requestID := "req-" + uuid.New().String()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("analyze panic request_id=%s: %v", requestID, r)
			env = fraud.NewErrorEnvelope("analyze_unexpected_error", fmt.Sprint(r), now)
			env.Meta.RequestID = requestID
		}
	}()

	scoring := fraud.Score(tx)
	explanation, model := s.explain(ctx, tx, scoring)

	s.countAnalysis(string(scoring.RiskLevel))

	env = &fraud.Envelope{
		Data: &fraud.AnalysisResult{
			Transaction:     tx,
			ID:              nil,
			Score:           scoring.Score,
			RiskLevel:       scoring.RiskLevel,
			Reasoning:       explanation.Reasoning,
			SuggestedAction: scoring.SuggestedAction,
			WizardSteps:     explanation.Steps,
			Explanation:     fraud.FeatureContributions(tx),
		},
		Meta: fraud.Meta{
			EngineVersion: fraud.EngineVersion,
			RulesFired:    scoring.RulesFired,
			LLMModel:      model,
			Timestamp:     now.Format(time.RFC3339),
			RequestID:     requestID,
		},
	}

	s.persist(ctx, tx, scoring, explanation.Reasoning)
	s.archiveEnvelope(ctx, requestID, env)

	return env
}

// Alerts returns the most recent fraud log records, newest first.
func (s *Service) Alerts(ctx context.Context, limit int) ([]*fraud.FraudLog, error) {
	if s.Logs == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = 50
	}
	return s.Logs.Latest(ctx, limit)
}

// explain resolves the narrative and wizard steps. Each failure mode of the
// provider path has an explicit reason so operators can tell a timeout from
// malformed content in logs and metrics, even though the caller never sees
// the difference. The returned model pointer is nil only when no provider is
// configured at all.
func (s *Service) explain(ctx context.Context, tx fraud.Transaction, scoring fraud.ScoringResult) (fraud.Explanation, *string) {
	if s.Explainer == nil {
		s.countFallback("not_configured")
		return fraud.FallbackExplanation(tx, scoring), nil
	}

	model := s.Explainer.Model()
	explanation, err := s.Explainer.Explain(ctx, tx, scoring)
	if err != nil {
		reason := fallbackReason(err)
		s.countFallback(reason)
		log.Printf("explanation fallback reason=%s model=%s err=%v", reason, model, err)
		return fraud.FallbackExplanation(tx, scoring), &model
	}
	if !explanation.Valid() {
		s.countFallback("invalid_explanation")
		log.Printf("explanation fallback reason=invalid_explanation model=%s", model)
		return fraud.FallbackExplanation(tx, scoring), &model
	}
	return explanation, &model
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, fraud.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, fraud.ErrInvalidExplanation):
		return "invalid_explanation"
	default:
		return "request_failed"
	}
}

// persist writes the condensed fraud log record. Best-effort: failures are
// logged for operators and otherwise ignored so they can never alter the
// envelope already computed.
func (s *Service) persist(ctx context.Context, tx fraud.Transaction, scoring fraud.ScoringResult, reasoning string) {
	if s.Logs == nil {
		return
	}

	txID := tx.TransactionID
	if txID == "" {
		txID = "tx-" + uuid.New().String()
	}
	rec := &fraud.FraudLog{
		ID:              "log-" + uuid.New().String(),
		TransactionID:   txID,
		RiskScore:       scoring.Score,
		AIReason:        reasoning,
		SuggestedAction: string(scoring.SuggestedAction),
		CreatedAt:       s.Clock.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.Logs.Save(ctx, rec); err != nil {
		log.Printf("fraud log write failed id=%s transaction_id=%s: %v", rec.ID, txID, err)
	}
}

// archiveEnvelope mirrors the full envelope to object storage, keyed by
// request id. Same best-effort contract as persist.
func (s *Service) archiveEnvelope(ctx context.Context, requestID string, env *fraud.Envelope) {
	if s.Archive == nil {
		return
	}

	body, err := json.Marshal(env)
	if err != nil {
		log.Printf("envelope archive marshal failed request_id=%s: %v", requestID, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.Archive.Store(ctx, requestID, body); err != nil {
		log.Printf("envelope archive failed request_id=%s: %v", requestID, err)
	}
}
