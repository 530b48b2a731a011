package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiops/fraud-wizard/internal/domain/fraud"
)

func TestParseWizardReply(t *testing.T) {
	content := `{
	  "reasoning": "High amount plus unusual velocity.",
	  "wizard_steps": [
	    {"id": "initial_assessment", "title": "Assessment", "message": "Review amount.", "severity": "HIGH"},
	    {"id": "next_best_action", "title": "Next", "message": "Block.", "severity": "INFO"}
	  ]
	}`

	exp, err := ParseWizardReply(content)
	require.NoError(t, err)
	assert.Equal(t, "High amount plus unusual velocity.", exp.Reasoning)
	require.Len(t, exp.Steps, 2)
	assert.Equal(t, fraud.SeverityHigh, exp.Steps[0].Severity)
}

func TestParseWizardReplyDefaults(t *testing.T) {
	content := `{"reasoning": "ok", "wizard_steps": [{"message": "do something"}]}`

	exp, err := ParseWizardReply(content)
	require.NoError(t, err)
	require.Len(t, exp.Steps, 1)
	assert.Equal(t, "step", exp.Steps[0].ID)
	assert.Equal(t, "Step", exp.Steps[0].Title)
	assert.Equal(t, fraud.SeverityInfo, exp.Steps[0].Severity)
}

func TestParseWizardReplyMalformed(t *testing.T) {
	_, err := ParseWizardReply("not json at all")
	assert.ErrorIs(t, err, fraud.ErrMalformedResponse)
}

func TestParseWizardReplyInvalid(t *testing.T) {
	// parseable but violating the explanation contract
	_, err := ParseWizardReply(`{"reasoning": "", "wizard_steps": [{"id": "x", "message": "m"}]}`)
	assert.ErrorIs(t, err, fraud.ErrInvalidExplanation)

	_, err = ParseWizardReply(`{"reasoning": "something", "wizard_steps": []}`)
	assert.ErrorIs(t, err, fraud.ErrInvalidExplanation)
}
