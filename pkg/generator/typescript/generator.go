package typescript

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blimu-dev/ts-clientgen/pkg/config"
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/utils"
)

//go:embed templates/*
var templatesFS embed.FS

// TypeScriptGenerator implements the Generator interface for fetch clients
type TypeScriptGenerator struct{}

// NewTypeScriptGenerator creates a new TypeScript generator
func NewTypeScriptGenerator() *TypeScriptGenerator {
	return &TypeScriptGenerator{}
}

// GetType returns the generator type identifier
func (g *TypeScriptGenerator) GetType() string {
	return "typescript"
}

// Generate renders the clients and types of doc into a single file under
// client.OutDir and returns the paths written.
func (g *TypeScriptGenerator) Generate(client config.Client, doc *schema.Document) ([]string, error) {
	settings, err := NewSettings(client)
	if err != nil {
		return nil, err
	}
	return WriteFile(client, doc, settings, FileName(client, ".ts"))
}

// FileName returns the configured output file name, or the kebab-cased client
// name with suffix.
func FileName(client config.Client, suffix string) string {
	if client.FileName != "" {
		return client.FileName
	}
	return utils.ToKebabCase(client.Name) + suffix
}

// WriteFile renders doc with settings to name under client.OutDir. Excluded
// files are skipped.
func WriteFile(client config.Client, doc *schema.Document, settings Settings, name string) ([]string, error) {
	target := filepath.Join(client.OutDir, name)
	if client.ShouldExcludeFile(target) {
		return nil, nil
	}
	res, err := Render(doc, settings)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(target, []byte(res.Code), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", target, err)
	}
	return []string{target}, nil
}
