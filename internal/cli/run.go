package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/blimu-dev/ts-clientgen/pkg/generator"
	"github.com/blimu-dev/ts-clientgen/pkg/openapi"
)

type FallbackParams struct {
	Spec         string
	Type         string
	OutDir       string
	Name         string
	FileName     string
	ModuleName   string
	TypeStyle    string
	DateHandling string
	IncludeTags  []string
	ExcludeTags  []string
}

type RunGenerateParams struct {
	ConfigPath   string
	SingleClient string
	Verbose      bool
	Fallback     FallbackParams
}

// RunValidate checks that input is a valid OpenAPI document the generator
// can convert
func RunValidate(ctx context.Context, input string) error {
	doc, err := openapi.LoadDocument(input)
	if err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	if _, err := openapi.Convert(doc); err != nil {
		return err
	}
	newLogger(false).Info("document is valid", "input", input)
	return nil
}

func RunGenerate(ctx context.Context, p RunGenerateParams) error {
	service := generator.NewService().WithLogger(newLogger(p.Verbose))
	if p.ConfigPath == "" {
		if p.Fallback.Spec == "" || p.Fallback.Type == "" || p.Fallback.OutDir == "" || p.Fallback.Name == "" {
			return errors.New("either --config or all of --input, --type, --out, --name must be provided")
		}
		fallback := generator.FallbackOptions(p.Fallback)
		fallback.OutDir = absPath(p.Fallback.OutDir)
		return service.Generate(ctx, generator.GenerateOptions{Fallback: fallback})
	}
	return service.Generate(ctx, generator.GenerateOptions{
		ConfigPath:   p.ConfigPath,
		SingleClient: p.SingleClient,
	})
}
