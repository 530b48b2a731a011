package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(v float64) *float64 { return &v }

func TestScoreHighAmount(t *testing.T) {
	res := Score(Transaction{Amount: amt(6000), Currency: "USD", IPAddress: "8.8.8.8"})

	assert.Equal(t, 0.9, res.Score)
	assert.Equal(t, RiskHigh, res.RiskLevel)
	assert.Equal(t, ActionBlock, res.SuggestedAction)
	assert.Equal(t, []string{RuleAmountGt5000}, res.RulesFired)
}

func TestScoreLocalIPLowAmount(t *testing.T) {
	res := Score(Transaction{Amount: amt(50), Currency: "USD", IPAddress: "192.168.1.5"})

	assert.Equal(t, 0.15, res.Score)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, ActionAllow, res.SuggestedAction)
	assert.Equal(t, []string{RuleLocalIPLowAmount}, res.RulesFired)
}

func TestScoreDefaultRule(t *testing.T) {
	res := Score(Transaction{Amount: amt(300), Currency: "EUR"})

	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, RiskMedium, res.RiskLevel)
	assert.Equal(t, ActionReview, res.SuggestedAction)
	assert.Equal(t, []string{RuleDefault}, res.RulesFired)
}

func TestScoreHighVelocity(t *testing.T) {
	res := Score(Transaction{Amount: amt(300), Currency: "USD", PreviousTxCount24h: 25})

	assert.Equal(t, 0.85, res.Score)
	assert.Equal(t, RiskHigh, res.RiskLevel)
	assert.Equal(t, ActionBlock, res.SuggestedAction)
	assert.Equal(t, []string{RuleHighVelocity24h}, res.RulesFired)
}

// A later rule can lower the running score even after an earlier rule
// raised it: velocity pushes to 0.85, local IP pulls down to 0.15.
func TestScoreLaterRuleLowersScore(t *testing.T) {
	res := Score(Transaction{
		Amount:             amt(50),
		Currency:           "USD",
		IPAddress:          "192.168.0.9",
		PreviousTxCount24h: 25,
	})

	assert.Equal(t, 0.15, res.Score)
	assert.Equal(t, RiskLow, res.RiskLevel)
	assert.Equal(t, ActionAllow, res.SuggestedAction)
	assert.Equal(t, []string{RuleHighVelocity24h, RuleLocalIPLowAmount}, res.RulesFired)
}

// Velocity uses max composition: with the amount rule already at 0.9, the
// velocity rule fires but cannot lower the score.
func TestScoreVelocityMaxComposition(t *testing.T) {
	res := Score(Transaction{Amount: amt(7000), Currency: "USD", PreviousTxCount24h: 30})

	assert.Equal(t, 0.9, res.Score)
	assert.Equal(t, []string{RuleAmountGt5000, RuleHighVelocity24h}, res.RulesFired)
}

func TestScoreBoundaries(t *testing.T) {
	// amount exactly 5000 does not trigger the amount rule
	res := Score(Transaction{Amount: amt(5000), Currency: "USD"})
	assert.Equal(t, []string{RuleDefault}, res.RulesFired)

	// velocity exactly 20 does not trigger
	res = Score(Transaction{Amount: amt(200), Currency: "USD", PreviousTxCount24h: 20})
	assert.Equal(t, []string{RuleDefault}, res.RulesFired)

	// local IP with amount just above 100 does not trigger
	res = Score(Transaction{Amount: amt(100.01), Currency: "USD", IPAddress: "192.168.1.1"})
	assert.Equal(t, []string{RuleDefault}, res.RulesFired)
}

// Scoring is total: a transaction with no amount and no optional fields
// still produces a valid result instead of faulting.
func TestScoreMissingFieldsNeutral(t *testing.T) {
	res := Score(Transaction{Currency: "USD", IPAddress: "192.168.1.1"})

	require.NotEmpty(t, res.RulesFired)
	assert.Equal(t, []string{RuleDefault}, res.RulesFired)
	assert.Equal(t, 0.5, res.Score)
	assert.Equal(t, RiskMedium, res.RiskLevel)
}

func TestFeatureContributions(t *testing.T) {
	entries := FeatureContributions(Transaction{Amount: amt(6000), IPAddress: "8.8.8.8"})
	require.Len(t, entries, 2)
	assert.Equal(t, ExplainEntry{Feature: "amount", Importance: 0.6}, entries[0])
	assert.Equal(t, ExplainEntry{Feature: "ip_address", Importance: 0.2}, entries[1])

	// importance is capped at 1.0
	entries = FeatureContributions(Transaction{Amount: amt(50000)})
	assert.Equal(t, 1.0, entries[0].Importance)
	assert.Equal(t, 0.0, entries[1].Importance)

	// absent amount contributes zero
	entries = FeatureContributions(Transaction{})
	assert.Equal(t, 0.0, entries[0].Importance)
}

func TestTransactionValidate(t *testing.T) {
	assert.Error(t, Transaction{Currency: "USD"}.Validate())
	assert.Error(t, Transaction{Amount: amt(10)}.Validate())
	assert.NoError(t, Transaction{Amount: amt(10), Currency: "USD"}.Validate())
}
