package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for client generation
type Config struct {
	Spec    string   `yaml:"spec"`
	Name    string   `yaml:"name"`
	Clients []Client `yaml:"clients"`
}

// Client represents configuration for a single generated output file
type Client struct {
	Type   string `yaml:"type"`
	OutDir string `yaml:"outDir"`
	Name   string `yaml:"name"`
	// FileName is the generated file name relative to OutDir
	FileName string `yaml:"fileName"`
	// ModuleName wraps the generated code in a namespace when set
	ModuleName string `yaml:"moduleName"`
	// Template selects the client flavour. Only "fetch" is available.
	Template string `yaml:"template"`
	// OperationGrouping is one of "tag", "operationId" or "single"
	OperationGrouping string `yaml:"operationGrouping"`
	// ClassNameTemplate builds client class names, "{controller}" is replaced
	// by the controller name
	ClassNameTemplate string   `yaml:"classNameTemplate"`
	// OperationIDParser is an optional executable that receives the
	// operationId, method and path as arguments and prints the method name
	OperationIDParser string   `yaml:"operationIdParser"`
	IncludeTags       []string `yaml:"includeTags"`
	ExcludeTags       []string `yaml:"excludeTags"`
	// TypeStyle is the default declaration style: "interface" or "class"
	TypeStyle string `yaml:"typeStyle"`
	// TypeStyleRules override TypeStyle for type names matching a pattern.
	// The first matching rule wins.
	TypeStyleRules []TypeStyleRule `yaml:"typeStyleRules"`
	// Composition is "inherit" or "flatten"
	Composition string `yaml:"composition"`
	// DateHandling is "date", "moment" or "string"
	DateHandling string `yaml:"dateHandling"`
	// ExtendedClasses are client classes emitted with a Base suffix so that
	// hand-written code can extend them
	ExtendedClasses []string `yaml:"extendedClasses"`
	// ExtensionCode is the path of a hand-written TypeScript file whose
	// imports, extension classes and remaining code are merged into the output
	ExtensionCode string `yaml:"extensionCode"`
	// ExtensionCodeText holds the content of ExtensionCode after Load
	ExtensionCodeText string `yaml:"-"`
	CodeBefore        string `yaml:"codeBefore"`
	CodeAfter         string `yaml:"codeAfter"`
	// GenerateClientClasses and GenerateDtoTypes default to true
	GenerateClientClasses *bool `yaml:"generateClientClasses"`
	GenerateDtoTypes      *bool `yaml:"generateDtoTypes"`
	// IncludeUnusedDefinitions emits every component schema, not only the
	// ones reachable from generated operations
	IncludeUnusedDefinitions bool `yaml:"includeUnusedDefinitions"`
	// DefaultBaseURL is the default base URL that will be used if no base URL is provided when creating a client
	DefaultBaseURL string `yaml:"defaultBaseURL"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["npm", "ci"]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes.
	// Uses Docker Compose array format: ["npx", "prettier", "--write", "."]
	// The command will be executed in the output directory.
	PostCommand []string `yaml:"postCommand"`
	// ExcludeFiles is a list of file paths (relative to outDir) that should not be generated
	ExcludeFiles []string `yaml:"exclude"`
}

// TypeStyleRule maps type names matching Pattern to Style
type TypeStyleRule struct {
	Pattern string `yaml:"pattern"`
	Style   string `yaml:"style"`
}

var (
	validTemplates    = []string{"", "fetch"}
	validGroupings    = []string{"", "tag", "operationId", "single"}
	validStyles       = []string{"", "interface", "class"}
	validCompositions = []string{"", "inherit", "flatten"}
	validDates        = []string{"", "date", "moment", "string"}
)

// GetPreCommand returns the pre-generation command to execute.
func (c *Client) GetPreCommand() []string {
	return c.PreCommand
}

// GetPostCommand returns the post-generation command to execute.
func (c *Client) GetPostCommand() []string {
	return c.PostCommand
}

// ShouldGenerateClientClasses reports whether client classes are emitted
func (c *Client) ShouldGenerateClientClasses() bool {
	return c.GenerateClientClasses == nil || *c.GenerateClientClasses
}

// ShouldGenerateDtoTypes reports whether type declarations are emitted
func (c *Client) ShouldGenerateDtoTypes() bool {
	return c.GenerateDtoTypes == nil || *c.GenerateDtoTypes
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (c *Client) ShouldExcludeFile(targetPath string) bool {
	if len(c.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(c.OutDir, targetPath)
	if err != nil {
		// not under OutDir
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, excludePattern := range c.ExcludeFiles {
		normalizedExclude := filepath.ToSlash(excludePattern)
		if relPath == normalizedExclude {
			return true
		}
		// "src/" excludes everything below src
		if normalizedExclude != "" && strings.HasPrefix(relPath, strings.TrimSuffix(normalizedExclude, "/")+"/") {
			return true
		}
	}

	return false
}

// Validate checks the enumerated options of a client
func (c *Client) Validate() error {
	if c.Type == "" || c.OutDir == "" || c.Name == "" {
		return errors.New("missing required fields (type, outDir, name)")
	}
	checks := []struct {
		field string
		value string
		valid []string
	}{
		{"template", c.Template, validTemplates},
		{"operationGrouping", c.OperationGrouping, validGroupings},
		{"typeStyle", c.TypeStyle, validStyles},
		{"composition", c.Composition, validCompositions},
		{"dateHandling", c.DateHandling, validDates},
	}
	for _, chk := range checks {
		if !contains(chk.valid, chk.value) {
			return fmt.Errorf("invalid %s %q", chk.field, chk.value)
		}
	}
	for i, r := range c.TypeStyleRules {
		if !contains(validStyles[1:], r.Style) {
			return fmt.Errorf("typeStyleRules[%d]: invalid style %q", i, r.Style)
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("typeStyleRules[%d]: invalid pattern %q: %w", i, r.Pattern, err)
		}
	}
	return nil
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Spec == "" {
		return nil, errors.New("config.spec is required")
	}
	for i := range cfg.Clients {
		c := &cfg.Clients[i]
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("clients[%d]: %w", i, err)
		}
		if !filepath.IsAbs(c.OutDir) {
			abs, _ := filepath.Abs(c.OutDir)
			c.OutDir = abs
		}
		if c.ExtensionCode != "" {
			text, err := os.ReadFile(c.ExtensionCode)
			if err != nil {
				return nil, fmt.Errorf("clients[%d]: failed to read extension code: %w", i, err)
			}
			c.ExtensionCodeText = string(text)
		}
	}
	// Do not absolutize when spec is an HTTP(S) URL
	if u, err := url.Parse(cfg.Spec); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		// keep as-is
	} else if !filepath.IsAbs(cfg.Spec) {
		abs, _ := filepath.Abs(cfg.Spec)
		cfg.Spec = abs
	}
	return &cfg, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
