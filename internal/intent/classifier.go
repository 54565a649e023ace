package intent

import (
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// UnknownIntent is returned when no definition scores above zero.
const UnknownIntent = "unknown"

const (
	keywordShare = 0.4
	patternShare = 0.6
)

// Classifier scores free-form text against a fixed set of intent
// definitions. It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	defs []Definition
}

// NewClassifier builds a classifier over the given definitions. Passing nil
// uses the built-in set.
func NewClassifier(defs []Definition) *Classifier {
	if defs == nil {
		defs = DefaultDefinitions()
	}
	return &Classifier{defs: defs}
}

// Classify returns the best-matching intent with a confidence in [0,1] and
// the entity extracted by the winning pattern, if any. It never fails; text
// that matches nothing yields the unknown intent at confidence zero.
func (c *Classifier) Classify(text string, _ domain.RequestContext) domain.ClassificationResult {
	now := time.Now()
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return unknownResult(now)
	}
	lower := strings.ToLower(trimmed)

	best := domain.ClassificationResult{Intent: UnknownIntent, Timestamp: now}
	for _, def := range c.defs {
		score, entity := scoreDefinition(def, trimmed, lower)
		if score > best.Confidence {
			best.Intent = def.ID
			best.Confidence = score
			best.Entity = entity
		}
	}
	if best.Confidence <= 0 {
		return unknownResult(now)
	}
	if best.Confidence > 1 {
		best.Confidence = 1
	}
	return best
}

func scoreDefinition(def Definition, text, lower string) (float64, string) {
	var keywordScore float64
	if len(def.Keywords) > 0 {
		hits := 0
		for _, kw := range def.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		keywordScore = float64(hits) / float64(len(def.Keywords)) * keywordShare
	}

	var patternScore float64
	var entity string
	for _, pattern := range def.Patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		patternScore = patternShare
		if len(match) > 1 {
			entity = trimEntity(match[1])
		}
		break
	}

	return (keywordScore + patternScore) * def.Weight, entity
}

// purposeMarkers cut a captured entity at the start of a trailing purpose
// clause, so "Figma for my design work" yields "Figma".
var purposeMarkers = []string{" for ", " because ", " so ", " since ", " as ", " to "}

func trimEntity(raw string) string {
	entity := strings.TrimSpace(raw)
	lower := strings.ToLower(entity)
	cut := len(entity)
	for _, marker := range purposeMarkers {
		if idx := strings.Index(lower, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(entity[:cut])
}

func unknownResult(now time.Time) domain.ClassificationResult {
	return domain.ClassificationResult{Intent: UnknownIntent, Confidence: 0, Timestamp: now}
}
