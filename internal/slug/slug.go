// Package slug provides URL-friendly slug generation from arbitrary
// strings, plus unique-slug allocation against an existence predicate.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Placeholder is returned by Make when normalization strips the whole
// input. A slug is never empty.
const Placeholder = "item"

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separatorRun collapses consecutive spaces and hyphens into one hyphen.
	separatorRun = regexp.MustCompile(`[\s-]+`)
)

// Make creates a URL-friendly slug from the given string, truncated to
// maxLen. Truncation happens before any collision suffix is appended, so
// the caller must leave headroom for suffixes in its column limit.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Make(s string, maxLen int) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = separatorRun.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if maxLen > 0 && len(result) > maxLen {
		result = strings.TrimRight(result[:maxLen], "-")
	}

	if result == "" {
		return Placeholder
	}
	return result
}

// ExistsFunc reports whether a candidate slug is already taken in the
// target collection.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Allocate returns base if it is free, otherwise the first free value of
// base-1, base-2, … The loop terminates after at most one probe per
// existing colliding slug plus one.
//
// Allocation is not atomic against concurrent allocation of the same base:
// two callers can both see a candidate as free before either commits. The
// store's uniqueness constraint is the backstop; creators retry on a
// commit-time duplicate.
func Allocate(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = Placeholder
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug existence check: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
