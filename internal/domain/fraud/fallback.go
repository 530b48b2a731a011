package fraud

import (
	"fmt"
	"strings"
)

// Wizard step ids shared by the fallback and the provider prompt schema.
const (
	StepInitialAssessment = "initial_assessment"
	StepNextBestAction    = "next_best_action"
)

// FallbackExplanation builds the deterministic explanation used whenever the
// external provider is unavailable or returns invalid output. No I/O; the
// wizard stays usable fully offline.
func FallbackExplanation(tx Transaction, scoring ScoringResult) Explanation {
	parts := []string{
		fmt.Sprintf("Risk level is %s because rules fired: %s.",
			scoring.RiskLevel, strings.Join(scoring.RulesFired, ", ")),
	}
	if tx.Amount != nil {
		parts = append(parts, fmt.Sprintf("Transaction amount is %g %s.", *tx.Amount, tx.Currency))
	}
	if tx.IPCountry != "" {
		parts = append(parts, fmt.Sprintf("IP country is %s.", tx.IPCountry))
	}
	reasoning := strings.Join(parts, " ")

	severity := SeverityMedium
	switch scoring.RiskLevel {
	case RiskHigh:
		severity = SeverityHigh
	case RiskLow:
		severity = SeverityLow
	}

	nextStep := "Approve the transaction but keep monitoring it."
	switch scoring.SuggestedAction {
	case ActionBlock:
		nextStep = "Block the transaction and notify the customer about the risk."
	case ActionReview, ActionHoldManualReview:
		nextStep = "Hold the transaction and request additional verification."
	}

	return Explanation{
		Reasoning: reasoning,
		Steps: []WizardStep{
			{
				ID:       StepInitialAssessment,
				Title:    "Initial risk assessment",
				Message:  reasoning,
				Severity: severity,
			},
			{
				ID:       StepNextBestAction,
				Title:    "Suggested next step",
				Message:  nextStep,
				Severity: SeverityInfo,
			},
		},
	}
}
