package typescript

import (
	"regexp"
	"strings"
)

var (
	importPattern = regexp.MustCompile(`(?m)^[ \t]*import\s[^;]*;[ \t]*\r?\n?`)
	classPattern  = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)
)

// ExtensionCode is hand-written TypeScript merged into the generated file
type ExtensionCode struct {
	// Imports are hoisted to the top of the file
	Imports []string
	// Classes holds the source of each extended class by name
	Classes map[string]string
	// Code is everything else, emitted after the declarations
	Code string
}

// ParseExtensionCode splits code into import statements, the classes named in
// extended and the remaining code.
func ParseExtensionCode(code string, extended []string) *ExtensionCode {
	ext := &ExtensionCode{Classes: map[string]string{}}
	if strings.TrimSpace(code) == "" {
		return ext
	}

	for _, imp := range importPattern.FindAllString(code, -1) {
		ext.Imports = append(ext.Imports, strings.TrimSpace(imp))
	}
	code = importPattern.ReplaceAllString(code, "")

	wanted := map[string]bool{}
	for _, name := range extended {
		wanted[name] = true
	}

	var rest strings.Builder
	pos := 0
	for _, m := range classPattern.FindAllStringSubmatchIndex(code, -1) {
		start, name := m[0], code[m[2]:m[3]]
		if start < pos || !wanted[name] {
			continue
		}
		end := classEnd(code, m[1])
		if end < 0 {
			continue
		}
		rest.WriteString(code[pos:start])
		ext.Classes[name] = strings.TrimSpace(code[start:end])
		pos = end
	}
	rest.WriteString(code[pos:])
	ext.Code = strings.TrimSpace(rest.String())
	return ext
}

// classEnd returns the offset just past the brace closing the class body
// opened after from, or -1 when the braces do not balance. Braces inside
// string literals and comments are skipped.
func classEnd(code string, from int) int {
	depth := 0
	for i := from; i < len(code); i++ {
		switch c := code[i]; c {
		case '"', '\'', '`':
			i = skipString(code, i)
		case '/':
			if i+1 < len(code) && code[i+1] == '/' {
				for i < len(code) && code[i] != '\n' {
					i++
				}
			} else if i+1 < len(code) && code[i+1] == '*' {
				end := strings.Index(code[i+2:], "*/")
				if end < 0 {
					return -1
				}
				i += end + 3
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}

func skipString(code string, start int) int {
	quote := code[start]
	for i := start + 1; i < len(code); i++ {
		switch code[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return len(code)
}

// clientClassesMap renders the {clientClasses} replacement
func clientClassesMap(classes []string) string {
	if len(classes) == 0 {
		return "{}"
	}
	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = "'" + c + "': " + c
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
