package utils

import (
	"fmt"
	"strings"
)

// CodeWriter accumulates lines of generated code, indented four spaces per level
type CodeWriter struct {
	b     strings.Builder
	depth int
	lines int
}

// Line writes s on its own line at the current indentation
func (w *CodeWriter) Line(s string) {
	if w.lines > 0 {
		w.b.WriteByte('\n')
	}
	w.lines++
	if s == "" {
		return
	}
	w.b.WriteString(strings.Repeat("    ", w.depth))
	w.b.WriteString(s)
}

// Linef writes a formatted line
func (w *CodeWriter) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Block writes pre-rendered, possibly multi-line code at the current indentation
func (w *CodeWriter) Block(code string) {
	if code == "" {
		return
	}
	for _, l := range strings.Split(code, "\n") {
		w.Line(l)
	}
}

// Indent increases the indentation level
func (w *CodeWriter) Indent() { w.depth++ }

// Dedent decreases the indentation level
func (w *CodeWriter) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Close dedents and writes a closing brace
func (w *CodeWriter) Close() {
	w.Dedent()
	w.Line("}")
}

// Doc writes text as a JSDoc comment, one line per line of text
func (w *CodeWriter) Doc(text string) {
	w.DocLines(strings.Split(strings.TrimSpace(text), "\n"))
}

// DocLines writes a JSDoc comment from individual lines. Nothing is written
// when all lines are empty.
func (w *CodeWriter) DocLines(lines []string) {
	var out []string
	for _, l := range lines {
		l = strings.TrimRight(strings.ReplaceAll(l, "*/", "*\\/"), " \r")
		if l != "" || len(out) > 0 {
			out = append(out, l)
		}
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	switch len(out) {
	case 0:
		return
	case 1:
		w.Linef("/** %s */", out[0])
		return
	}
	w.Line("/**")
	for _, l := range out {
		w.Line(strings.TrimRight(" * "+l, " "))
	}
	w.Line(" */")
}

func (w *CodeWriter) String() string {
	return w.b.String()
}
