package typegen

import (
	"fmt"
	"regexp"
)

// Style is the declaration style of an object type
type Style int

const (
	// StyleInterface emits a structural interface. Decoded JSON is used as is.
	StyleInterface Style = iota
	// StyleClass emits a class with a static fromJS factory and a toJSON
	// method. Decoded JSON must be rebuilt through fromJS.
	StyleClass
)

func (s Style) String() string {
	if s == StyleClass {
		return "class"
	}
	return "interface"
}

// ParseStyle parses "interface" or "class". An empty string is the interface style.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "", "interface":
		return StyleInterface, nil
	case "class":
		return StyleClass, nil
	}
	return StyleInterface, fmt.Errorf("unknown type style %q", s)
}

// StyleRule applies Style to every type name matching Pattern
type StyleRule struct {
	Pattern *regexp.Regexp
	Style   Style
}

// StylePolicy decides the declaration style per type name. The first
// matching rule wins; names without a match get Default.
type StylePolicy struct {
	Default Style
	Rules   []StyleRule
}

// StyleOf returns the style for the given type name
func (p StylePolicy) StyleOf(name string) Style {
	for _, r := range p.Rules {
		if r.Pattern != nil && r.Pattern.MatchString(name) {
			return r.Style
		}
	}
	return p.Default
}

// Composition controls how allOf parents end up in declarations
type Composition int

const (
	// CompositionInherit links named parents through extends clauses
	CompositionInherit Composition = iota
	// CompositionFlatten copies parent members into the derived declaration
	CompositionFlatten
)

// ParseComposition parses "inherit" or "flatten"
func ParseComposition(s string) (Composition, error) {
	switch s {
	case "", "inherit":
		return CompositionInherit, nil
	case "flatten":
		return CompositionFlatten, nil
	}
	return CompositionInherit, fmt.Errorf("unknown composition %q", s)
}

// DateHandling selects the target representation of date strings
type DateHandling string

const (
	DateHandlingDate   DateHandling = "date"
	DateHandlingMoment DateHandling = "moment"
	DateHandlingString DateHandling = "string"
)

// ParseDateHandling parses a date handling name. Empty means DateHandlingDate.
func ParseDateHandling(s string) (DateHandling, error) {
	switch DateHandling(s) {
	case "", DateHandlingDate:
		return DateHandlingDate, nil
	case DateHandlingMoment, DateHandlingString:
		return DateHandling(s), nil
	}
	return DateHandlingDate, fmt.Errorf("unknown date handling %q", s)
}

// Options configures a Resolver
type Options struct {
	Styles       StylePolicy
	Composition  Composition
	DateHandling DateHandling
}

// DefaultOptions returns interface declarations, inheritance and Date values.
func DefaultOptions() Options {
	return Options{DateHandling: DateHandlingDate}
}
