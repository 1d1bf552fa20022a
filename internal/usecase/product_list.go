package usecase

import (
	"regexp"
	"strings"
)

var multipleSpacesRegex = regexp.MustCompile(`\s+`)

// ParseProductList splits comma separated input into product names.
// Names are trimmed and internal whitespace collapsed; empty entries are dropped
// and duplicates are kept.
func ParseProductList(input string) []string {
	return NormalizeProductNames(strings.Split(input, ","))
}

// NormalizeProductNames applies the same cleanup to an already split list
func NormalizeProductNames(in []string) []string {
	names := make([]string, 0, len(in))
	for _, part := range in {
		if name := normalizeProductName(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func normalizeProductName(s string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(s, " "))
}
