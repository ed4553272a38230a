package person

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeID returns the comparison form of a person identifier.
// Identifiers are usually e-mail addresses typed by hand in different stores,
// so they are trimmed, NFC-normalized and case-folded before any match.
func NormalizeID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ""
	}
	// A Caser keeps state and is not safe for concurrent use
	return cases.Fold().String(norm.NFC.String(trimmed))
}

// SameID reports whether two identifiers refer to the same person
func SameID(a, b string) bool {
	na := NormalizeID(a)
	return na != "" && na == NormalizeID(b)
}

// DisplayHandle returns the local part of an e-mail style identifier,
// or the identifier itself when it has no "@".
func DisplayHandle(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.Index(id, "@"); i > 0 {
		return id[:i]
	}
	return id
}
