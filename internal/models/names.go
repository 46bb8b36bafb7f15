package models

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// NormalizeName returns the comparison key for a member display name: trimmed
// and case-folded, so "  Ana " and "ANA" collide.
func NormalizeName(name string) string {
	return folder.String(strings.TrimSpace(name))
}
