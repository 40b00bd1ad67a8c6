// Package branchfallback implements a small rewrite-rule language for
// deriving alternate branch names when the one a caller asked for isn't
// advertised by the remote: "release-3.2.1" falls back to "release-3",
// then to "release", and so on, until something the remote actually has
// is found.
package branchfallback

import (
	"container/list"
	"fmt"
	"regexp"
	"strings"
)

// Rule is a single regex-based rewrite: Pattern.ReplaceAllString(branch,
// Replacement) is tried against every resolution candidate.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Parse parses one fallback rule out of a delimited string of the form
// "<d>pattern<d>replacement<d>", where <d> is whatever rune opens the
// string. A backslash escapes an immediately following delimiter rune
// into a literal one; a backslash before anything else is kept verbatim
// (so standard regex escapes like `\d` pass through untouched).
func Parse(s string) (Rule, error) {
	runes := []rune(s)
	if len(runes) == 0 {
		return Rule{}, fmt.Errorf("branchfallback: empty fallback string")
	}
	delim := runes[0]

	var parts []string
	var current strings.Builder
	inEscape := false

	for _, c := range runes[1:] {
		switch {
		case inEscape:
			if c != delim {
				current.WriteRune('\\')
			}
			current.WriteRune(c)
			inEscape = false
		case c == '\\':
			inEscape = true
		case c == delim && len(parts) < 2:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}

	if inEscape {
		return Rule{}, fmt.Errorf("branchfallback: trailing escape character")
	}

	if current.Len() != 0 || len(parts) != 2 {
		return Rule{}, fmt.Errorf("branchfallback: expected format: %[1]cregex%[1]creplacement%[1]c", delim)
	}

	patternStr, replacement := parts[0], parts[1]
	pattern, err := regexp.Compile(patternStr)
	if err != nil {
		return Rule{}, fmt.Errorf("branchfallback: invalid regex %q: %w", patternStr, err)
	}

	return Rule{Pattern: pattern, Replacement: replacement}, nil
}

// ParseAll parses a slice of raw rule strings in order.
func ParseAll(raw []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(raw))
	for _, s := range raw {
		rule, err := Parse(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Resolve searches for a branch name present in available (keyed by
// branch name) reachable from target by applying rules, breadth-first.
// A candidate is only re-enqueued if a rule strictly shortens it, which
// guarantees the search terminates. It returns the resolved key and true,
// or "", false if no candidate in the queue is present in available.
func Resolve[T any](target string, rules []Rule, available map[string]T) (string, bool) {
	queue := list.New()
	queue.PushBack(target)

	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(string)
		if _, ok := available[front]; ok {
			return front, true
		}
		for _, rule := range rules {
			next := rule.Pattern.ReplaceAllString(front, rule.Replacement)
			if next != front && len(next) < len(front) {
				queue.PushBack(next)
			}
		}
	}
	return "", false
}
