package intent

import "regexp"

// Definition describes one author-defined intent. Patterns are evaluated in
// order and the first match wins; capture group 1, when present, becomes the
// extracted entity.
type Definition struct {
	ID       string
	Patterns []*regexp.Regexp
	Keywords []string
	Weight   float64
}

// DefaultDefinitions returns the built-in intent set in evaluation order.
// Order matters twice: patterns within a definition are first-match-wins,
// and equal scores across definitions resolve to the earlier one.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			ID: "access_request",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(?:access|permission)s?\s+(?:to|for)\s+([\w .\-]+)`),
				regexp.MustCompile(`(?i)\bgrant\s+(?:me\s+)?([\w .\-]+)`),
			},
			Keywords: []string{"access", "permission", "grant", "account", "license"},
			Weight:   0.9,
		},
		{
			ID: "password_reset",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(?:reset|forgot)\s+(?:my\s+)?password\b`),
				regexp.MustCompile(`(?i)\blocked\s+out\b`),
			},
			Keywords: []string{"password", "reset", "forgot", "locked", "login"},
			Weight:   0.9,
		},
		{
			ID: "hardware_issue",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bmy\s+(laptop|computer|keyboard|monitor|mouse|printer|headset|dock)\b`),
				regexp.MustCompile(`(?i)\b(laptop|keyboard|monitor|printer)\s+(?:is\s+)?(?:broken|dead|cracked)\b`),
			},
			Keywords: []string{"laptop", "broken", "screen", "battery", "device", "hardware"},
			Weight:   0.85,
		},
		{
			ID: "network_issue",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\b(wifi|vpn|internet|network)\b`),
			},
			Keywords: []string{"wifi", "vpn", "internet", "connection", "slow", "offline"},
			Weight:   0.85,
		},
		{
			ID: "onboarding",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bnew\s+(?:hire|employee|starter)\b`),
				regexp.MustCompile(`(?i)\bonboard(?:ing)?\b`),
				regexp.MustCompile(`(?i)\bfirst\s+day\b`),
			},
			Keywords: []string{"onboarding", "hire", "starter", "setup", "equipment"},
			Weight:   0.85,
		},
		{
			ID: "software_issue",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\binstall(?:ing)?\s+([\w .\-]+)`),
				regexp.MustCompile(`(?i)\b([\w.\-]+)\s+(?:keeps\s+crashing|crashed|won't\s+open|is\s+not\s+working)`),
			},
			Keywords: []string{"software", "install", "application", "crash", "error", "update"},
			Weight:   0.8,
		},
		{
			ID: "status_inquiry",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)\bstatus\s+of\s+(?:my\s+)?(?:ticket|request)\s*#?([\w\-]*)`),
				regexp.MustCompile(`(?i)\bany\s+update\b`),
			},
			Keywords: []string{"status", "update", "ticket", "progress", "pending"},
			Weight:   0.75,
		},
	}
}
