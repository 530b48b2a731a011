package fraud

import (
	"errors"
	"time"
)

// EngineVersion is reported in every envelope's meta block.
const EngineVersion = "fraud-wizard-mvp-1"

// RiskLevel enum
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Action enum. The first three are produced by the scorer; the extended
// values are part of the contract for downstream consumers.
type Action string

const (
	ActionAllow            Action = "ALLOW"
	ActionReview           Action = "REVIEW"
	ActionBlock            Action = "BLOCK"
	ActionHoldManualReview Action = "HOLD_AND_MANUAL_REVIEW"
)

// Severity enum for wizard steps
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO"
)

// Transaction is the normalized payload accepted by /analyze. Fields are kept
// generic so upstream automation (n8n etc.) can map different event formats
// (payment, login, KYC) into a single schema. Everything except amount and
// currency is optional; absent fields are neutral for scoring.
type Transaction struct {
	Amount                 *float64 `json:"amount"`
	Currency               string   `json:"currency"`
	CustomerID             string   `json:"customer_id,omitempty"`
	TransactionID          string   `json:"transaction_id,omitempty"`
	Merchant               string   `json:"merchant,omitempty"`
	MerchantID             string   `json:"merchant_id,omitempty"`
	Channel                string   `json:"channel,omitempty"` // web, mobile, pos, api
	Timestamp              string   `json:"timestamp,omitempty"`
	IPAddress              string   `json:"ip_address,omitempty"`
	IPCountry              string   `json:"ip_country,omitempty"`
	DeviceID               string   `json:"device_id,omitempty"`
	UserAgent              string   `json:"user_agent,omitempty"`
	PreviousTxCount24h     int      `json:"previous_tx_count_24h,omitempty"`
	PreviousChargebacks90d int      `json:"previous_chargebacks_90d,omitempty"`
}

// Validate checks the fields that must be present before analysis runs.
func (t Transaction) Validate() error {
	if t.Amount == nil {
		return errors.New("amount is required")
	}
	if t.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

// ScoringResult is the rule-based scoring output, kept separate from the
// natural-language explanation so the numeric model stays pure.
type ScoringResult struct {
	Score           float64   `json:"score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	SuggestedAction Action    `json:"suggested_action"`
	RulesFired      []string  `json:"rules_fired"`
}

// WizardStep is one unit of analyst guidance in the Fraud Wizard flow.
type WizardStep struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Explanation is the narrative plus guided steps for a scored transaction.
type Explanation struct {
	Reasoning string       `json:"reasoning"`
	Steps     []WizardStep `json:"wizard_steps"`
}

// Valid reports whether the explanation satisfies the minimum contract:
// non-empty narrative and at least one step. Anything weaker must be
// replaced by the deterministic fallback, never returned to a caller.
func (e Explanation) Valid() bool {
	return e.Reasoning != "" && len(e.Steps) > 0
}

// ExplainEntry is a feature contribution used for explainability.
type ExplainEntry struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// AnalysisResult is the payload under `data` in the /analyze envelope.
type AnalysisResult struct {
	Transaction     Transaction    `json:"transaction"`
	ID              *string        `json:"id"`
	Score           float64        `json:"score"`
	RiskLevel       RiskLevel      `json:"risk_level"`
	Reasoning       string         `json:"reasoning"`
	SuggestedAction Action         `json:"suggested_action"`
	WizardSteps     []WizardStep   `json:"wizard_steps"`
	Explanation     []ExplainEntry `json:"explanation"`
}

// Meta carries envelope metadata. LLMModel is nil when no explanation
// provider is configured, so callers can tell which mode produced the result.
type Meta struct {
	EngineVersion string   `json:"engine_version"`
	RulesFired    []string `json:"rules_fired,omitempty"`
	LLMModel      *string  `json:"llm_model"`
	Timestamp     string   `json:"timestamp"`
	RequestID     string   `json:"request_id,omitempty"`
}

// APIError is the structured error slot of the envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the terminal artifact of one analysis. Exactly one of
// Data/Error is populated.
type Envelope struct {
	Data  *AnalysisResult `json:"data"`
	Meta  Meta            `json:"meta"`
	Error *APIError       `json:"error"`
}

// NewErrorEnvelope builds a hard-failure envelope (data null, error set).
func NewErrorEnvelope(code, message string, now time.Time) *Envelope {
	return &Envelope{
		Meta: Meta{
			EngineVersion: EngineVersion,
			Timestamp:     now.UTC().Format(time.RFC3339),
		},
		Error: &APIError{Code: code, Message: message},
	}
}

// FraudLog is the condensed record persisted per successful analysis.
// Writes are idempotent on ID and never updated afterwards.
type FraudLog struct {
	ID              string    `json:"id"`
	TransactionID   string    `json:"transaction_id"`
	RiskScore       float64   `json:"risk_score"`
	AIReason        string    `json:"ai_reason"`
	SuggestedAction string    `json:"suggested_action"`
	CreatedAt       time.Time `json:"created_at"`
}
