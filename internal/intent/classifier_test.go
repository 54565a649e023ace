package intent

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

func TestClassifyAccessRequest(t *testing.T) {
	c := NewClassifier(nil)

	result := c.Classify("I need access to Figma", domain.RequestContext{})

	assert.Equal(t, "access_request", result.Intent)
	assert.Equal(t, "Figma", result.Entity)
	assert.Greater(t, result.Confidence, 0.5)
}

func TestClassifyEmptyText(t *testing.T) {
	c := NewClassifier(nil)

	for _, text := range []string{"", "   ", "\t\n"} {
		result := c.Classify(text, domain.RequestContext{})
		assert.Equal(t, UnknownIntent, result.Intent)
		assert.Zero(t, result.Confidence)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	c := NewClassifier(nil)

	result := c.Classify("zzz qqq xyzzy", domain.RequestContext{})

	assert.Equal(t, UnknownIntent, result.Intent)
	assert.Zero(t, result.Confidence)
}

func TestClassifyConfidenceBounds(t *testing.T) {
	c := NewClassifier(nil)

	texts := []string{
		"I need access to Figma",
		"my laptop is broken",
		"reset my password please",
		"the wifi is slow again",
		"new hire starting monday needs equipment",
		"installing Photoshop fails with an error",
		"status of my ticket #TCK-1234",
		"hello",
		"",
	}
	for _, text := range texts {
		result := c.Classify(text, domain.RequestContext{})
		assert.GreaterOrEqual(t, result.Confidence, 0.0, "text %q", text)
		assert.LessOrEqual(t, result.Confidence, 1.0, "text %q", text)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(nil)

	const text = "My laptop is broken and urgent"
	first := c.Classify(text, domain.RequestContext{})
	for i := 0; i < 10; i++ {
		next := c.Classify(text, domain.RequestContext{})
		assert.Equal(t, first.Intent, next.Intent)
		assert.Equal(t, first.Confidence, next.Confidence)
		assert.Equal(t, first.Entity, next.Entity)
	}
}

func TestClassifyTieBreaksByDefinitionOrder(t *testing.T) {
	defs := []Definition{
		{ID: "first", Keywords: []string{"alpha"}, Weight: 1},
		{ID: "second", Keywords: []string{"alpha"}, Weight: 1},
	}
	c := NewClassifier(defs)

	result := c.Classify("alpha", domain.RequestContext{})

	assert.Equal(t, "first", result.Intent)
}

func TestClassifyFirstPatternWins(t *testing.T) {
	defs := []Definition{
		{
			ID: "demo",
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`need ([a-z]+)`),
				regexp.MustCompile(`need ([a-z]+) badly`),
			},
			Weight: 1,
		},
	}
	c := NewClassifier(defs)

	result := c.Classify("need coffee badly", domain.RequestContext{})

	require.Equal(t, "demo", result.Intent)
	assert.Equal(t, "coffee", result.Entity)
}

func TestClassifyKeywordOnlyScoresBelowPatternMatch(t *testing.T) {
	c := NewClassifier(nil)

	keywordOnly := c.Classify("my connection is really slow", domain.RequestContext{})
	patternHit := c.Classify("the vpn is down", domain.RequestContext{})

	require.Equal(t, "network_issue", keywordOnly.Intent)
	require.Equal(t, "network_issue", patternHit.Intent)
	assert.Greater(t, patternHit.Confidence, keywordOnly.Confidence)
}
