package fraud

import (
	"math"
	"strings"
)

// Rule names recorded in ScoringResult.RulesFired, in evaluation order.
const (
	RuleAmountGt5000     = "amount_gt_5000"
	RuleHighVelocity24h  = "high_velocity_24h"
	RuleLocalIPLowAmount = "local_ip_low_amount"
	RuleDefault          = "default_rule"
)

// Tier thresholds applied to the final score.
const (
	highRiskThreshold = 0.8
	lowRiskThreshold  = 0.2
)

// Score runs the rule-based scorer over a transaction. It is total and
// deterministic: missing optional fields are neutral and never fault.
//
// Rules run in a fixed order and compose on a running score: a rule may
// raise it via max or lower it via min, so a later rule can override an
// earlier one. The tier/action mapping looks only at the final score.
func Score(tx Transaction) ScoringResult {
	var rules []string
	score := 0.5

	if tx.Amount != nil && *tx.Amount > 5000 {
		score = 0.9
		rules = append(rules, RuleAmountGt5000)
	}
	if tx.PreviousTxCount24h > 20 {
		score = math.Max(score, 0.85)
		rules = append(rules, RuleHighVelocity24h)
	}
	if strings.HasPrefix(tx.IPAddress, "192.") && tx.Amount != nil && *tx.Amount <= 100 {
		score = math.Min(score, 0.15)
		rules = append(rules, RuleLocalIPLowAmount)
	}
	if len(rules) == 0 {
		rules = append(rules, RuleDefault)
	}

	var level RiskLevel
	var action Action
	switch {
	case score >= highRiskThreshold:
		level, action = RiskHigh, ActionBlock
	case score <= lowRiskThreshold:
		level, action = RiskLow, ActionAllow
	default:
		level, action = RiskMedium, ActionReview
	}

	return ScoringResult{
		Score:           score,
		RiskLevel:       level,
		SuggestedAction: action,
		RulesFired:      rules,
	}
}

// FeatureContributions computes the explainability side-channel for the
// envelope. Independent of the scoring result.
func FeatureContributions(tx Transaction) []ExplainEntry {
	amount := 0.0
	if tx.Amount != nil {
		amount = math.Min(math.Abs(*tx.Amount)/10000.0, 1.0)
	}
	ip := 0.0
	if tx.IPAddress != "" {
		ip = 0.2
	}
	return []ExplainEntry{
		{Feature: "amount", Importance: amount},
		{Feature: "ip_address", Importance: ip},
	}
}
