package typescript

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/blimu-dev/ts-clientgen/pkg/config"
	"github.com/blimu-dev/ts-clientgen/pkg/operation"
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/typegen"
)

// TemplateFetch emits clients built on the fetch API
const TemplateFetch = "fetch"

// DefaultClassNameTemplate names a client class after its controller
const DefaultClassNameTemplate = "{controller}Client"

// Settings control a single rendering of a document
type Settings struct {
	// ModuleName wraps the output in a namespace when set
	ModuleName        string
	Template          string
	ClassNameTemplate string
	Grouping          operation.Grouping
	// MethodNamer overrides method names, see operation.Options
	MethodNamer func(op schema.Operation) string
	Types       typegen.Options
	// ExtendedClasses are emitted as <Name>Base. The extension code supplies
	// the class named <Name> itself.
	ExtendedClasses []string
	ExtensionCode   string
	CodeBefore      string
	CodeAfter       string

	GenerateClientClasses    bool
	GenerateDtoTypes         bool
	IncludeUnusedDefinitions bool
	DefaultBaseURL           string
}

// DefaultSettings returns settings emitting fetch clients and interfaces
func DefaultSettings() Settings {
	return Settings{
		Template:              TemplateFetch,
		ClassNameTemplate:     DefaultClassNameTemplate,
		Grouping:              operation.GroupByTag,
		Types:                 typegen.DefaultOptions(),
		GenerateClientClasses: true,
		GenerateDtoTypes:      true,
	}
}

// NewSettings derives the rendering settings of a configured client
func NewSettings(client config.Client) (Settings, error) {
	s := DefaultSettings()
	s.ModuleName = client.ModuleName
	if client.Template != "" {
		s.Template = client.Template
	}
	if client.ClassNameTemplate != "" {
		s.ClassNameTemplate = client.ClassNameTemplate
	}

	var err error
	if s.Grouping, err = operation.ParseGrouping(client.OperationGrouping); err != nil {
		return s, err
	}
	if s.Types.Styles.Default, err = typegen.ParseStyle(client.TypeStyle); err != nil {
		return s, err
	}
	for i, rule := range client.TypeStyleRules {
		pattern, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return s, fmt.Errorf("typeStyleRules[%d]: %w", i, err)
		}
		style, err := typegen.ParseStyle(rule.Style)
		if err != nil {
			return s, fmt.Errorf("typeStyleRules[%d]: %w", i, err)
		}
		s.Types.Styles.Rules = append(s.Types.Styles.Rules, typegen.StyleRule{Pattern: pattern, Style: style})
	}
	if s.Types.Composition, err = typegen.ParseComposition(client.Composition); err != nil {
		return s, err
	}
	if s.Types.DateHandling, err = typegen.ParseDateHandling(client.DateHandling); err != nil {
		return s, err
	}
	if client.OperationIDParser != "" {
		s.MethodNamer = externalMethodNamer(client.OperationIDParser)
	}

	s.ExtendedClasses = client.ExtendedClasses
	s.ExtensionCode = client.ExtensionCodeText
	s.CodeBefore = client.CodeBefore
	s.CodeAfter = client.CodeAfter
	s.GenerateClientClasses = client.ShouldGenerateClientClasses()
	s.GenerateDtoTypes = client.ShouldGenerateDtoTypes()
	s.IncludeUnusedDefinitions = client.IncludeUnusedDefinitions
	s.DefaultBaseURL = client.DefaultBaseURL
	return s, nil
}

// ClassName returns the client class name of a controller. The unnamed
// controller of single grouping yields the template without its placeholder.
func (s Settings) ClassName(controller string) string {
	tmpl := s.ClassNameTemplate
	if tmpl == "" {
		tmpl = DefaultClassNameTemplate
	}
	return strings.ReplaceAll(tmpl, "{controller}", controller)
}

// IsExtended reports whether className is completed by extension code
func (s Settings) IsExtended(className string) bool {
	for _, c := range s.ExtendedClasses {
		if c == className {
			return true
		}
	}
	return false
}

// externalMethodNamer runs parser with the operationId, method and path and
// uses its trimmed output as the method name. Failures fall back to the
// built-in naming.
func externalMethodNamer(parser string) func(op schema.Operation) string {
	return func(op schema.Operation) string {
		out, err := exec.Command(parser, op.OperationID, op.Method, op.Path).Output()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}
