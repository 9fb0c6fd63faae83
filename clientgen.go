// Package clientgen generates TypeScript fetch clients and DTO declarations
// from OpenAPI documents.
//
// The package offers a simple API for common use cases. For more control,
// see the generator package.
//
// Quick Start:
//
//	import "github.com/blimu-dev/ts-clientgen"
//
//	// Generate a TypeScript client
//	err := clientgen.GenerateTypeScriptClient(
//		context.Background(),
//		"https://petstore3.swagger.io/api/v3/openapi.json",
//		"./generated",
//		"petstore",
//	)
package clientgen

import (
	"context"

	"github.com/blimu-dev/ts-clientgen/pkg/generator"
)

// GenerateTypeScriptClient generates a single file holding the clients and
// types of an OpenAPI document.
//
// Parameters:
//   - spec: Path to OpenAPI document file or HTTP(S) URL
//   - outDir: Output directory for the generated file
//   - name: Client name, the file is named after it in kebab-case
//
// Example:
//
//	err := clientgen.GenerateTypeScriptClient(ctx, "./openapi.yaml", "./src/api", "MyApi")
func GenerateTypeScriptClient(ctx context.Context, spec, outDir, name string) error {
	return generator.GenerateTypeScriptClient(ctx, spec, outDir, name)
}

// GenerateClient generates a client with full configuration options.
//
// Example:
//
//	err := clientgen.GenerateClient(ctx, clientgen.GenerateClientOptions{
//		Spec:        "./openapi.yaml",
//		Type:        "typescript",
//		OutDir:      "./src/api",
//		Name:        "MyApi",
//		ModuleName:  "Api",
//		IncludeTags: []string{"users", "orders"},
//		ExcludeTags: []string{"internal"},
//	})
func GenerateClient(ctx context.Context, opts GenerateClientOptions) error {
	return generator.GenerateClient(ctx, generator.GenerateClientOptions(opts))
}

// GenerateFromConfig generates every client of a YAML configuration file.
// Optionally, you can specify a single client name to generate only that client.
//
// Example:
//
//	// Generate all clients from config
//	err := clientgen.GenerateFromConfig(ctx, "./clientgen.yaml")
//
//	// Generate only a specific client
//	err := clientgen.GenerateFromConfig(ctx, "./clientgen.yaml", "admin")
func GenerateFromConfig(ctx context.Context, configPath string, singleClient ...string) error {
	return generator.GenerateFromConfig(ctx, configPath, singleClient...)
}

// ValidateSpec loads an OpenAPI document and checks that it can be converted.
//
// Example:
//
//	if err := clientgen.ValidateSpec("./openapi.yaml"); err != nil {
//		log.Fatalf("Invalid OpenAPI document: %v", err)
//	}
func ValidateSpec(specPath string) error {
	return generator.ValidateSpec(specPath)
}

// GenerateClientOptions contains options for client generation
type GenerateClientOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleClient generates only the named client from config (optional)
	SingleClient string

	// Fallback options when no config file is provided
	Spec        string   // OpenAPI document file or URL
	Type        string   // Generator type (e.g., "typescript")
	OutDir      string   // Output directory
	Name        string   // Client name, used for the default file name
	FileName    string   // Output file name (optional)
	ModuleName  string   // Namespace wrapping the output (optional)
	IncludeTags []string // Regex patterns for tags to include
	ExcludeTags []string // Regex patterns for tags to exclude
}
