package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/repowhisperer/repowhisperer/internal/assembler"
	"github.com/repowhisperer/repowhisperer/internal/composer"
	"github.com/repowhisperer/repowhisperer/internal/config"
	"github.com/repowhisperer/repowhisperer/internal/extractor"
	"github.com/repowhisperer/repowhisperer/internal/inference"
)

// Result summarizes one pipeline run for CLI reporting.
type Result struct {
	OutputPath string
	FileCount  int
	UnitCount  int
	Issues     []assembler.Issue
}

// Pipeline wires extract, compose, generate, and assemble into one run.
type Pipeline struct {
	cfg       *config.Config
	generator inference.Generator
	showBar   bool
}

// New builds a pipeline around an already-constructed generator. The
// generator is external by design; dry runs pass nil and stop after
// composition.
func New(cfg *config.Config, gen inference.Generator, showBar bool) *Pipeline {
	return &Pipeline{cfg: cfg, generator: gen, showBar: showBar}
}

// Run executes the full pipeline against rootDir and writes the README to
// outputPath. Only an unreadable root or an empty scan is fatal; everything
// else degrades to a partial document with recorded issues.
func (p *Pipeline) Run(ctx context.Context, rootDir, outputPath string) (*Result, error) {
	records, projectName, err := p.scan(rootDir)
	if err != nil {
		return nil, err
	}

	units := composer.NewComposer(p.cfg.Prompts).Compose(projectName, records)
	log.Info().Int("files", len(records)).Int("prompts", len(units)).Msg("composed prompt sequence")

	opts := inference.Options{
		MaxTokens:   p.cfg.Model.MaxTokens,
		Temperature: p.cfg.Model.Temperature,
		TopP:        p.cfg.Model.TopP,
	}
	completions, err := inference.NewRunner(p.generator, opts, p.showBar).Run(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("generation interrupted: %w", err)
	}

	// A failed unit yields no section at all; the assembler detects the gap
	// from the unit sequence and fills it with a placeholder.
	sections := make([]assembler.GeneratedSection, 0, len(completions))
	for _, c := range completions {
		if c.Err != nil {
			continue
		}
		sections = append(sections, assembler.GeneratedSection{Index: c.Index, Kind: c.Kind, Text: c.Text})
	}

	doc := assembler.New(projectName, p.generator.ModelID()).Assemble(units, sections)
	for _, issue := range doc.Issues {
		log.Warn().Str("section", issue.Section).Msg(issue.Message)
	}

	if err := os.WriteFile(outputPath, []byte(doc.Markdown), 0o644); err != nil {
		return nil, fmt.Errorf("write readme: %w", err)
	}
	log.Info().Str("path", outputPath).Msg("readme written")

	return &Result{
		OutputPath: outputPath,
		FileCount:  len(records),
		UnitCount:  len(units),
		Issues:     doc.Issues,
	}, nil
}

// Scan runs extraction only, for the dry-run and scan commands.
func (p *Pipeline) Scan(rootDir string) ([]extractor.FileRecord, string, error) {
	return p.scan(rootDir)
}

func (p *Pipeline) scan(rootDir string) ([]extractor.FileRecord, string, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, "", fmt.Errorf("resolve root directory: %w", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, "", fmt.Errorf("read root directory: %w", err)
	}

	scanner, err := extractor.NewScanner(p.cfg.Parsing, p.cfg.Prompts.ContextLines)
	if err != nil {
		return nil, "", err
	}
	records, err := scanner.Scan(absRoot)
	if err != nil {
		return nil, "", fmt.Errorf("scan %s: %w", absRoot, err)
	}
	if len(records) == 0 {
		return nil, "", fmt.Errorf("no eligible source files under %s", absRoot)
	}

	return records, filepath.Base(absRoot), nil
}
