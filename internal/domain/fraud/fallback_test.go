package fraud

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackAlwaysTwoSteps(t *testing.T) {
	tx := Transaction{Amount: amt(6000), Currency: "USD", IPCountry: "DE"}
	scoring := Score(tx)

	exp := FallbackExplanation(tx, scoring)

	require.True(t, exp.Valid())
	require.Len(t, exp.Steps, 2)
	assert.Equal(t, StepInitialAssessment, exp.Steps[0].ID)
	assert.Equal(t, StepNextBestAction, exp.Steps[1].ID)
	assert.Equal(t, SeverityInfo, exp.Steps[1].Severity)
}

func TestFallbackNarrativeNamesEveryRule(t *testing.T) {
	tx := Transaction{
		Amount:             amt(50),
		Currency:           "USD",
		IPAddress:          "192.168.1.5",
		PreviousTxCount24h: 25,
	}
	scoring := Score(tx)
	require.Len(t, scoring.RulesFired, 2)

	exp := FallbackExplanation(tx, scoring)
	for _, rule := range scoring.RulesFired {
		assert.Contains(t, exp.Reasoning, rule)
	}
	assert.Contains(t, exp.Reasoning, "50 USD")
}

func TestFallbackSeverityMirrorsTier(t *testing.T) {
	cases := []struct {
		scoring ScoringResult
		want    Severity
	}{
		{ScoringResult{RiskLevel: RiskHigh, SuggestedAction: ActionBlock, RulesFired: []string{RuleAmountGt5000}}, SeverityHigh},
		{ScoringResult{RiskLevel: RiskLow, SuggestedAction: ActionAllow, RulesFired: []string{RuleLocalIPLowAmount}}, SeverityLow},
		{ScoringResult{RiskLevel: RiskMedium, SuggestedAction: ActionReview, RulesFired: []string{RuleDefault}}, SeverityMedium},
	}
	for _, c := range cases {
		exp := FallbackExplanation(Transaction{}, c.scoring)
		assert.Equal(t, c.want, exp.Steps[0].Severity, "risk level %s", c.scoring.RiskLevel)
	}
}

func TestFallbackNextStepByAction(t *testing.T) {
	block := FallbackExplanation(Transaction{}, ScoringResult{RiskLevel: RiskHigh, SuggestedAction: ActionBlock, RulesFired: []string{RuleAmountGt5000}})
	assert.True(t, strings.HasPrefix(block.Steps[1].Message, "Block"))

	review := FallbackExplanation(Transaction{}, ScoringResult{RiskLevel: RiskMedium, SuggestedAction: ActionReview, RulesFired: []string{RuleDefault}})
	assert.True(t, strings.HasPrefix(review.Steps[1].Message, "Hold"))

	allow := FallbackExplanation(Transaction{}, ScoringResult{RiskLevel: RiskLow, SuggestedAction: ActionAllow, RulesFired: []string{RuleLocalIPLowAmount}})
	assert.True(t, strings.HasPrefix(allow.Steps[1].Message, "Approve"))

	// The manual-review action from the extended action space holds like REVIEW.
	hold := FallbackExplanation(Transaction{}, ScoringResult{RiskLevel: RiskHigh, SuggestedAction: ActionHoldManualReview, RulesFired: []string{RuleHighVelocity24h}})
	assert.True(t, strings.HasPrefix(hold.Steps[1].Message, "Hold"))
}

func TestFallbackOmitsAbsentFields(t *testing.T) {
	exp := FallbackExplanation(Transaction{Currency: "USD"}, ScoringResult{RiskLevel: RiskMedium, SuggestedAction: ActionReview, RulesFired: []string{RuleDefault}})

	assert.NotContains(t, exp.Reasoning, "Transaction amount")
	assert.NotContains(t, exp.Reasoning, "IP country")
}
