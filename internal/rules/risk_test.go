package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

func newTestAssessor() *RiskAssessor {
	return NewRiskAssessor(
		[]string{"figma", "slack", "notion"},
		[]string{"aws", "production database", "admin panel"},
	)
}

func TestAssessRisk(t *testing.T) {
	a := newTestAssessor()

	tests := []struct {
		resource string
		want     domain.RiskLevel
	}{
		{"AWS", domain.RiskHigh},
		{"Figma", domain.RiskLow},
		{"figma", domain.RiskLow},
		{"Production Database", domain.RiskHigh},
		{"Tableau", domain.RiskMedium},
		{"", domain.RiskMedium},
		// a compound name that mentions a high-risk resource is high risk
		// even when it also mentions a low-risk one
		{"figma admin panel", domain.RiskHigh},
		{"slack bot for production database", domain.RiskHigh},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, a.Assess(tc.resource), "resource %q", tc.resource)
	}
}

func TestAutoApprovalRequiresLowRiskAndRoutineMarker(t *testing.T) {
	a := newTestAssessor()

	assert.True(t, a.QualifiesForAutoApproval("Figma", "routine design work"))
	assert.True(t, a.QualifiesForAutoApproval("Slack", "standard team communication"))

	// low risk but no routine marker
	assert.False(t, a.QualifiesForAutoApproval("Figma", "need it for a secret project"))

	// high risk is never auto-approved regardless of justification
	assert.False(t, a.QualifiesForAutoApproval("AWS", "routine daily standard access"))

	// medium risk falls through to manual review
	assert.False(t, a.QualifiesForAutoApproval("Tableau", "routine reporting"))

	// a high-risk mention buried in a compound name blocks auto-approval
	assert.False(t, a.QualifiesForAutoApproval("figma admin panel", "routine daily work"))
}
