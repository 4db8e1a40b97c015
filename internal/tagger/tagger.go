// Package tagger provides the raw candidate extractor: a pluggable
// capability that turns text into candidate entities with spans and labels,
// before any ontology-constrained LLM refinement happens.
package tagger

import (
	"context"

	"github.com/raphaelgruber/ontograph/internal/models"
)

// Tagger extracts candidate entities from text. Implementations include the
// built-in pattern tagger and a remote NLP service client.
type Tagger interface {
	Extract(ctx context.Context, text string) ([]models.Entity, error)
}

// MapLabel normalizes external tagger labels to the service's entity type
// vocabulary. Unknown labels pass through unchanged.
func MapLabel(label string) string {
	if mapped, ok := labelMap[label]; ok {
		return mapped
	}
	return label
}

var labelMap = map[string]string{
	"PERSON":               "PERSON_NAME",
	"ORG":                  "COMPANY_NAME",
	"GPE":                  "LOCATION",
	"LOC":                  "LOCATION",
	"MONEY":                "MONETARY_AMOUNT",
	"DATE":                 "DATE",
	"TIME":                 "TIME",
	"PERCENT":              "PERCENTAGE",
	"CARDINAL":             "NUMBER",
	"ORDINAL":              "ORDINAL_NUMBER",
	"EMAIL":                "EMAIL_ADDRESS",
	"CURRENCY":             "MONETARY_AMOUNT",
	"FINANCIAL_ORG":        "FINANCIAL_INSTITUTION",
	"FINANCIAL_INSTRUMENT": "FINANCIAL_INSTRUMENT",
	"STOCK_SYMBOL":         "STOCK_SYMBOL",
	"JOB_TITLE":            "JOB_TITLE",
}
