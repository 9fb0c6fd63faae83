package generator

import (
	"fmt"
	"regexp"

	"github.com/blimu-dev/ts-clientgen/pkg/config"
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
)

// filterDocument returns a copy of doc holding only the operations the
// client's tag filters admit. The schema graph is shared.
func filterDocument(doc *schema.Document, client config.Client) (*schema.Document, error) {
	include, exclude, err := compileTagFilters(client.IncludeTags, client.ExcludeTags)
	if err != nil {
		return nil, err
	}
	if len(include) == 0 && len(exclude) == 0 {
		return doc, nil
	}

	filtered := *doc
	filtered.Operations = make([]schema.Operation, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		if shouldIncludeOperation(op.Tags, include, exclude) {
			filtered.Operations = append(filtered.Operations, op)
		}
	}
	return &filtered, nil
}

// compileTagFilters compiles include and exclude regex patterns
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid includeTags pattern %q: %w", p, err)
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid excludeTags pattern %q: %w", p, err)
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeOperation determines if an operation should be included based on its tags
func shouldIncludeOperation(tags []string, include, exclude []*regexp.Regexp) bool {
	// Without include patterns every operation starts out included
	included := len(include) == 0

	// An operation is included if ANY of its tags match ANY include pattern
	for _, tag := range tags {
		for _, r := range include {
			if r.MatchString(tag) {
				included = true
				break
			}
		}
		if included {
			break
		}
	}
	if !included {
		return false
	}

	// Exclude takes precedence: ANY matching tag drops the operation
	for _, tag := range tags {
		for _, r := range exclude {
			if r.MatchString(tag) {
				return false
			}
		}
	}
	return true
}
