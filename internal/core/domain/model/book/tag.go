package book

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"bookypedia/internal/pkg/errs"
)

// MaxTagLength mirrors the varchar(30) book_tags.tag column.
const MaxTagLength = 30

// ParseTags splits a comma-separated line into a normalized tag set.
//
//	book.ParseTags(" fantasy, magic,,fantasy ") // []string{"fantasy", "magic"}
func ParseTags(line string) []string {
	if strings.TrimSpace(line) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(line, ","))
}

// NormalizeTags trims every tag, drops empty ones, removes duplicates and sorts the result.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ValidateTags rejects tags longer than MaxTagLength.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if n := utf8.RuneCountInString(tag); n > MaxTagLength {
			return errs.NewValueIsInvalidErrorWithCause("tag",
				fmt.Errorf("%q has %d characters, the limit is %d", tag, n, MaxTagLength))
		}
	}
	return nil
}

// JoinTags renders tags for display as "a, b, c", skipping empty entries.
func JoinTags(tags []string) string {
	nonEmpty := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != "" {
			nonEmpty = append(nonEmpty, tag)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
