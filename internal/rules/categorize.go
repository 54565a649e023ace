package rules

import (
	"strings"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// categoryKeywords is scanned in fixed order; the first category with a
// keyword hit wins, so hardware outranks network, network outranks access,
// and so on down to the general fallback.
var categoryKeywords = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryHardware, []string{"laptop", "keyboard", "monitor", "mouse", "printer", "screen", "battery", "charger", "dock", "headset"}},
	{domain.CategoryNetwork, []string{"wifi", "vpn", "network", "internet", "connection", "ethernet", "dns"}},
	{domain.CategoryAccess, []string{"access", "permission", "login", "account", "password", "credential"}},
	{domain.CategorySoftware, []string{"software", "install", "application", "crash", "update", "license", "bug"}},
}

var urgentKeywords = []string{"urgent", "asap", "critical", "emergency", "immediately", "outage", "blocked", "cannot work", "can't work"}

var minorKeywords = []string{"minor", "whenever", "no rush", "low priority", "cosmetic", "typo", "nice to have"}

// CategorizeTicket derives a category and priority from free-form text.
// Deterministic: same text always yields the same pair.
func CategorizeTicket(text string) (domain.Category, domain.Priority) {
	lower := strings.ToLower(text)

	category := domain.CategoryGeneral
	for _, group := range categoryKeywords {
		if containsAny(lower, group.keywords) {
			category = group.category
			break
		}
	}

	priority := domain.PriorityMedium
	if containsAny(lower, urgentKeywords) {
		priority = domain.PriorityHigh
	} else if containsAny(lower, minorKeywords) {
		priority = domain.PriorityLow
	}

	return category, priority
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
