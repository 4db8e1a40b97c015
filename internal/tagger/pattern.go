package tagger

import (
	"context"
	"regexp"
	"sort"

	"github.com/raphaelgruber/ontograph/internal/models"
)

// contextWindow is the number of characters of surrounding text captured on
// each side of a match.
const contextWindow = 40

type patternRule struct {
	re         *regexp.Regexp
	entityType string
	label      string
	confidence float64
}

// PatternTagger is the built-in candidate extractor: regex rules for highly
// structured values (emails, amounts, tickers). It stands in for an external
// linguistic tagger when none is configured, and is fully deterministic.
type PatternTagger struct {
	rules []patternRule
}

// Compile-time check that PatternTagger implements Tagger.
var _ Tagger = (*PatternTagger)(nil)

// NewPatternTagger creates a tagger with the default rule set.
func NewPatternTagger() *PatternTagger {
	return &PatternTagger{rules: []patternRule{
		{
			re:         regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
			entityType: "EMAIL_ADDRESS",
			label:      "EMAIL",
			confidence: 0.95,
		},
		{
			re:         regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`),
			entityType: "MONETARY_AMOUNT",
			label:      "CURRENCY",
			confidence: 0.95,
		},
		{
			re:         regexp.MustCompile(`[\d,]+(?:\.\d{2})?\s?(?:USD|EUR|GBP|JPY)`),
			entityType: "MONETARY_AMOUNT",
			label:      "CURRENCY",
			confidence: 0.9,
		},
		{
			re:         regexp.MustCompile(`\([A-Z]+:[A-Z]{1,5}\)`),
			entityType: "STOCK_SYMBOL",
			label:      "STOCK_SYMBOL",
			confidence: 0.9,
		},
		{
			re:         regexp.MustCompile(`\d+(?:\.\d+)?%`),
			entityType: "PERCENTAGE",
			label:      "PERCENT",
			confidence: 0.9,
		},
		{
			re:         regexp.MustCompile(`https?://[^\s)>"']+`),
			entityType: "URL",
			label:      "URL",
			confidence: 0.9,
		},
		{
			re:         regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`),
			entityType: "PHONE_NUMBER",
			label:      "PHONE",
			confidence: 0.7,
		},
	}}
}

// Extract returns candidate entities for every rule match, de-duplicated so
// that overlapping matches keep the highest-confidence candidate, ordered by
// start offset. The error return satisfies Tagger; pattern matching itself
// cannot fail.
func (t *PatternTagger) Extract(_ context.Context, text string) ([]models.Entity, error) {
	var candidates []models.Entity

	for _, rule := range t.rules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			s, e := start, end
			candidates = append(candidates, models.Entity{
				Type:       rule.entityType,
				Value:      text[start:end],
				Confidence: rule.confidence,
				Start:      &s,
				End:        &e,
				Label:      rule.label,
				Context:    surrounding(text, start, end),
			})
		}
	}

	candidates = dedupeOverlaps(candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return *candidates[i].Start < *candidates[j].Start
	})
	return candidates, nil
}

func surrounding(text string, start, end int) string {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}

// dedupeOverlaps drops candidates whose span overlaps a higher-confidence
// candidate. Ties keep the earlier rule's match.
func dedupeOverlaps(candidates []models.Entity) []models.Entity {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	kept := make([]models.Entity, 0, len(candidates))
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if *c.Start < *k.End && *k.Start < *c.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	return kept
}
