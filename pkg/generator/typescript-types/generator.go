package typescripttypes

import (
	"github.com/blimu-dev/ts-clientgen/pkg/config"
	"github.com/blimu-dev/ts-clientgen/pkg/generator/typescript"
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
)

// TypeScriptTypesGenerator implements the Generator interface for files that
// hold type declarations only
type TypeScriptTypesGenerator struct{}

// NewTypeScriptTypesGenerator creates a new TypeScript types generator
func NewTypeScriptTypesGenerator() *TypeScriptTypesGenerator {
	return &TypeScriptTypesGenerator{}
}

// GetType returns the generator type identifier
func (g *TypeScriptTypesGenerator) GetType() string {
	return "typescript-types"
}

// Generate writes every component schema of doc, and the anonymous types
// the operations introduce, to <name>-types.ts unless a file name is
// configured.
func (g *TypeScriptTypesGenerator) Generate(client config.Client, doc *schema.Document) ([]string, error) {
	settings, err := Settings(client)
	if err != nil {
		return nil, err
	}
	return typescript.WriteFile(client, doc, settings, typescript.FileName(client, "-types.ts"))
}

// Settings returns the client's settings with client classes disabled and
// all definitions included
func Settings(client config.Client) (typescript.Settings, error) {
	settings, err := typescript.NewSettings(client)
	if err != nil {
		return settings, err
	}
	settings.GenerateClientClasses = false
	settings.GenerateDtoTypes = true
	settings.IncludeUnusedDefinitions = true
	settings.ExtendedClasses = nil
	return settings, nil
}
