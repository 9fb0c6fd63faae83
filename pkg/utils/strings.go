package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	camelSplit = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitWords splits a string into words, handling camelCase, PascalCase, snake_case, and kebab-case
func SplitWords(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = RemoveAccents(s)
	s = camelSplit.ReplaceAllString(s, "$1 $2")

	parts := nonAlnum.Split(s, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ToPascalCase converts a string to PascalCase
func ToPascalCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}

	b := strings.Builder{}
	for _, p := range parts {
		// Capitalize first letter, keep rest of the word as lowercase
		b.WriteString(strings.ToUpper(p[:1]))
		if len(p) > 1 {
			b.WriteString(strings.ToLower(p[1:]))
		}
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase
func ToCamelCase(s string) string {
	p := ToPascalCase(s)
	if p == "" {
		return ""
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// ToKebabCase converts a string to kebab-case
func ToKebabCase(s string) string {
	parts := SplitWords(s)
	if len(parts) == 0 {
		return ""
	}

	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return strings.Join(parts, "-")
}

// ToTypeName turns a declared schema name or a name hint into a TypeScript
// type identifier. Unlike ToPascalCase it keeps the casing inside each word,
// so "petDTO" becomes "PetDTO" and "Order.Line" becomes "OrderLine".
func ToTypeName(s string) string {
	s = RemoveAccents(strings.TrimSpace(s))
	b := strings.Builder{}
	for _, p := range nonAlnum.Split(s, -1) {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	out := b.String()
	if out == "" {
		return ""
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// ToVariableName converts a wire name into a valid, non-reserved camelCase
// TypeScript variable name.
func ToVariableName(s string) string {
	v := ToCamelCase(s)
	if v == "" {
		return "_"
	}
	if v[0] >= '0' && v[0] <= '9' {
		v = "_" + v
	}
	return EscapeReservedWord(v)
}

// TypeScript reserved words
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"implements": true, "import": true, "in": true, "instanceof": true,
	"interface": true, "let": true, "new": true, "null": true, "package": true,
	"private": true, "protected": true, "public": true, "return": true,
	"static": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "type": true, "typeof": true, "var": true,
	"void": true, "while": true, "with": true, "yield": true,
}

// IsReservedWord reports whether name is a TypeScript reserved word
func IsReservedWord(name string) bool {
	return reservedWords[name]
}

// EscapeReservedWord escapes a reserved word by appending an underscore.
func EscapeReservedWord(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

// QuotePropertyName quotes property names that are not valid identifiers
func QuotePropertyName(name string) string {
	if name == "" {
		return `""`
	}
	needsQuoting := name[0] >= '0' && name[0] <= '9'
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_' || char == '$') {
			needsQuoting = true
			break
		}
	}
	if needsQuoting {
		return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
	}
	return name
}
