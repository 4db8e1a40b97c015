package models

import "strings"

// NormalizeToken lowercases a type or value and normalizes spaces and
// hyphens to underscores, producing the deterministic part of object ids.
func NormalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// IDPrefix builds the deterministic id prefix for an extracted object from
// its type and value. A random suffix is appended by the provenance tracker;
// ids are therefore session-unique, not content-addressed.
func IDPrefix(typ, value string) string {
	return NormalizeToken(typ) + "_" + NormalizeToken(value)
}
