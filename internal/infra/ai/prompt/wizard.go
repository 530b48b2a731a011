package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/aiops/fraud-wizard/internal/domain/fraud"
)

// GetSystemPrompt provides strict directions and the JSON schema the model
// must follow.
func GetSystemPrompt() string {
	return `You are a Fraud Wizard assistant for a fraud detection dashboard. Your job is to explain WHY a transaction is risky or safe and to propose clear next steps for a human analyst. Always reply ONLY with a single JSON object matching the given schema. Do not add any extra text, no markdown, no code fences.

Schema:
{
  "reasoning": "<why the risk is high/medium/low>",
  "wizard_steps": [
    {
      "id": "initial_assessment",
      "title": "<short title>",
      "message": "<explanation text for the operations team>",
      "severity": "HIGH|MEDIUM|LOW|INFO"
    }
  ]
}`
}

// GetUserPrompt builds the user message around the serialized transaction
// and scoring payload.
func GetUserPrompt(payloadJSON string) string {
	return fmt.Sprintf("Below is a normalized transaction and its rule-based risk scoring. Produce a short but business-meaningful summary and define the wizard steps.\n\nPAYLOAD_JSON: %s\n\nRespond with exactly the JSON schema from the system message.", payloadJSON)
}

// WizardReply matches the schema requested from the model.
type WizardReply struct {
	Reasoning   string `json:"reasoning"`
	WizardSteps []struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"wizard_steps"`
}

// ParseWizardReply decodes model output into an Explanation, applying the
// same lenient per-step defaults the dashboard expects. Schema-level
// garbage maps to ErrMalformedResponse; a reply missing reasoning or steps
// maps to ErrInvalidExplanation.
func ParseWizardReply(content string) (fraud.Explanation, error) {
	var reply WizardReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return fraud.Explanation{}, fmt.Errorf("%w: %v", fraud.ErrMalformedResponse, err)
	}

	steps := make([]fraud.WizardStep, 0, len(reply.WizardSteps))
	for _, s := range reply.WizardSteps {
		step := fraud.WizardStep{
			ID:       s.ID,
			Title:    s.Title,
			Message:  s.Message,
			Severity: fraud.Severity(s.Severity),
		}
		if step.ID == "" {
			step.ID = "step"
		}
		if step.Title == "" {
			step.Title = "Step"
		}
		if step.Severity == "" {
			step.Severity = fraud.SeverityInfo
		}
		steps = append(steps, step)
	}

	explanation := fraud.Explanation{Reasoning: reply.Reasoning, Steps: steps}
	if !explanation.Valid() {
		return fraud.Explanation{}, fraud.ErrInvalidExplanation
	}
	return explanation, nil
}
