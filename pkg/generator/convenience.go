package generator

import (
	"context"
	"path/filepath"

	"github.com/blimu-dev/ts-clientgen/pkg/config"
	"github.com/blimu-dev/ts-clientgen/pkg/openapi"
)

// GenerateClient is a convenience function for generating with minimal configuration
func GenerateClient(ctx context.Context, opts GenerateClientOptions) error {
	service := NewService()

	genOpts := GenerateOptions{
		ConfigPath:   opts.ConfigPath,
		SingleClient: opts.SingleClient,
		Fallback: FallbackOptions{
			Spec:        opts.Spec,
			Type:        opts.Type,
			OutDir:      opts.OutDir,
			Name:        opts.Name,
			FileName:    opts.FileName,
			ModuleName:  opts.ModuleName,
			IncludeTags: opts.IncludeTags,
			ExcludeTags: opts.ExcludeTags,
		},
	}

	return service.Generate(ctx, genOpts)
}

// GenerateClientOptions contains options for the convenience GenerateClient function
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

// GenerateTypeScriptClient is a convenience function specifically for fetch client generation
func GenerateTypeScriptClient(ctx context.Context, spec, outDir, name string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	return GenerateClient(ctx, GenerateClientOptions{
		Spec:   spec,
		Type:   "typescript",
		OutDir: absOutDir,
		Name:   name,
	})
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(ctx context.Context, configPath string, singleClient ...string) error {
	service := NewService()
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	onlyClient := ""
	if len(singleClient) > 0 {
		onlyClient = singleClient[0]
	}

	return service.GenerateFromConfig(ctx, cfg, onlyClient)
}

// ValidateSpec loads and converts an OpenAPI document without generating
func ValidateSpec(specPath string) error {
	_, err := openapi.Load(specPath)
	return err
}
