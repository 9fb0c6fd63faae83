package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/ts-clientgen/pkg/config"
	"github.com/blimu-dev/ts-clientgen/pkg/generator/typescript"
	typescripttypes "github.com/blimu-dev/ts-clientgen/pkg/generator/typescript-types"
	"github.com/blimu-dev/ts-clientgen/pkg/openapi"
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
)

// Generator defines the interface for output generators
type Generator interface {
	// Generate writes the output of one client and returns the written paths
	Generate(client config.Client, doc *schema.Document) ([]string, error)
	// GetType returns the type identifier for this generator (e.g., "typescript")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types, sorted
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenerateOptions contains options for generation
type GenerateOptions struct {
	ConfigPath   string
	SingleClient string
	Fallback     FallbackOptions
}

// FallbackOptions contains fallback options when no config file is provided
type FallbackOptions struct {
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

// Service provides high-level generation functionality
type Service struct {
	registry *Registry
	logger   *slog.Logger
}

// NewService creates a new generator service with default generators
func NewService() *Service {
	registry := NewRegistry()
	registry.Register(typescript.NewTypeScriptGenerator())
	registry.Register(typescripttypes.NewTypeScriptTypesGenerator())
	return NewServiceWithRegistry(registry)
}

// NewServiceWithRegistry creates a new generator service with a custom registry
func NewServiceWithRegistry(registry *Registry) *Service {
	return &Service{
		registry: registry,
		logger:   slog.Default(),
	}
}

// WithLogger replaces the service logger
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger
	return s
}

// Generate generates clients based on the provided options
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) error {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		if opts.Fallback.Spec == "" || opts.Fallback.Type == "" ||
			opts.Fallback.OutDir == "" || opts.Fallback.Name == "" {
			return fmt.Errorf("either config path or all fallback options must be provided")
		}
		client := config.Client{
			Type:         opts.Fallback.Type,
			OutDir:       opts.Fallback.OutDir,
			Name:         opts.Fallback.Name,
			FileName:     opts.Fallback.FileName,
			ModuleName:   opts.Fallback.ModuleName,
			TypeStyle:    opts.Fallback.TypeStyle,
			DateHandling: opts.Fallback.DateHandling,
			IncludeTags:  opts.Fallback.IncludeTags,
			ExcludeTags:  opts.Fallback.ExcludeTags,
		}
		if err := client.Validate(); err != nil {
			return err
		}
		cfg = &config.Config{Spec: opts.Fallback.Spec, Clients: []config.Client{client}}
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
	}

	return s.GenerateFromConfig(ctx, cfg, opts.SingleClient)
}

// GenerateFromConfig loads the document once and generates every client of
// cfg concurrently. The first failing client cancels the rest.
func (s *Service) GenerateFromConfig(ctx context.Context, cfg *config.Config, onlyClient string) error {
	doc, err := openapi.Load(cfg.Spec)
	if err != nil {
		return err
	}
	s.logger.Info("loaded document", "spec", cfg.Spec, "operations", len(doc.Operations), "definitions", len(doc.Graph.Definitions()))

	type job struct {
		generator Generator
		client    config.Client
	}
	var jobs []job
	for _, client := range cfg.Clients {
		if onlyClient != "" && client.Name != onlyClient {
			continue
		}
		generator, exists := s.registry.Get(client.Type)
		if !exists {
			return fmt.Errorf("unsupported client type: %s", client.Type)
		}
		jobs = append(jobs, job{generator: generator, client: client})
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j // per-iteration copy; go.mod targets go1.21 (pre-1.22 loop semantics)
		g.Go(func() error {
			return s.generateClient(ctx, j.generator, j.client, doc)
		})
	}
	return g.Wait()
}

func (s *Service) generateClient(ctx context.Context, generator Generator, client config.Client, doc *schema.Document) error {
	logger := s.logger.With("client", client.Name, "type", client.Type)

	// Ensure output directory exists before pre-commands
	if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for client %s: %w", client.Name, err)
	}
	if err := s.executePreCommands(ctx, client); err != nil {
		return fmt.Errorf("pre-generation commands failed for client %s: %w", client.Name, err)
	}

	filtered, err := filterDocument(doc, client)
	if err != nil {
		return fmt.Errorf("client %s: %w", client.Name, err)
	}
	written, err := generator.Generate(client, filtered)
	if err != nil {
		return fmt.Errorf("client %s: %w", client.Name, err)
	}
	for _, path := range written {
		logger.Info("wrote file", "path", path, "operations", len(filtered.Operations))
	}
	if len(written) == 0 {
		logger.Warn("output excluded, nothing written")
	}

	if err := s.executePostGenCommands(ctx, client); err != nil {
		return fmt.Errorf("post-generation commands failed for client %s: %w", client.Name, err)
	}
	return nil
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// executePreCommands executes the pre-generation command for a client
func (s *Service) executePreCommands(ctx context.Context, client config.Client) error {
	command := client.GetPreCommand()
	if len(command) == 0 {
		return nil
	}
	return s.executeCommand(ctx, command, client.OutDir, "pre-command")
}

// executePostGenCommands executes the post-generation command for a client
func (s *Service) executePostGenCommands(ctx context.Context, client config.Client) error {
	command := client.GetPostCommand()
	if len(command) == 0 {
		return nil
	}
	return s.executeCommand(ctx, command, client.OutDir, "post-command")
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(ctx context.Context, command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmdDescription := strings.Join(command, " ")
	s.logger.Debug("running command", "label", commandLabel, "command", cmdDescription, "dir", workDir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}
	return nil
}
