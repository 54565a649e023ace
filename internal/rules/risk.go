package rules

import (
	"strings"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// routineMarkers are the justification terms that signal everyday usage and
// make a low-risk request eligible for auto-approval.
var routineMarkers = []string{"routine", "daily", "regular", "standard", "everyday", "day-to-day"}

// RiskAssessor classifies requested resources against configured risk lists.
type RiskAssessor struct {
	low  []string
	high []string
}

// NewRiskAssessor builds an assessor from lowercase-normalized resource lists.
func NewRiskAssessor(lowResources, highResources []string) *RiskAssessor {
	return &RiskAssessor{
		low:  normalize(lowResources),
		high: normalize(highResources),
	}
}

// Assess returns the risk tier for a resource name. The high list takes
// precedence over the low list so a compound name that mentions a high-risk
// resource can never assess low; anything unmatched defaults to medium.
func (a *RiskAssessor) Assess(resource string) domain.RiskLevel {
	name := strings.ToLower(strings.TrimSpace(resource))
	if name == "" {
		return domain.RiskMedium
	}
	if matchesAny(name, a.high) {
		return domain.RiskHigh
	}
	if matchesAny(name, a.low) {
		return domain.RiskLow
	}
	return domain.RiskMedium
}

// QualifiesForAutoApproval reports whether an access request may be approved
// without human review: the resource must assess low AND the justification
// must contain at least one routine-use marker.
func (a *RiskAssessor) QualifiesForAutoApproval(resource, justification string) bool {
	if a.Assess(resource) != domain.RiskLow {
		return false
	}
	just := strings.ToLower(justification)
	for _, marker := range routineMarkers {
		if strings.Contains(just, marker) {
			return true
		}
	}
	return false
}

func matchesAny(name string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

func normalize(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if trimmed := strings.ToLower(strings.TrimSpace(term)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
