package composer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/repowhisperer/repowhisperer/internal/config"
	"github.com/repowhisperer/repowhisperer/internal/extractor"
)

const maxListedExternalDeps = 10

// Composer turns extracted file structures into the ordered PromptUnit
// sequence. Composition is purely synchronous and deterministic: the same
// records and budget always produce byte-identical prompts.
type Composer struct {
	maxChunkSize int
	contextLines int
}

// NewComposer creates a composer from the prompts configuration.
func NewComposer(cfg config.PromptsConfig) *Composer {
	return &Composer{
		maxChunkSize: cfg.MaxChunkSize,
		contextLines: cfg.ContextLines,
	}
}

// Compose produces the full prompt sequence in its fixed order: one overview
// prompt, one chunk-detail prompt per chunk, one architecture prompt, and one
// usage-example prompt. The assembler depends on this order; it must not
// change independently.
func (c *Composer) Compose(projectName string, records []extractor.FileRecord) []PromptUnit {
	includeSnippets := c.contextLines > 0
	chunks := buildChunks(records, c.maxChunkSize, includeSnippets)

	units := make([]PromptUnit, 0, len(chunks)+3)
	units = append(units, PromptUnit{
		Index:  0,
		Kind:   KindOverview,
		Budget: c.maxChunkSize,
		Text:   c.buildOverviewPrompt(projectName, records),
	})

	for i, ch := range chunks {
		text := strings.Join(ch.summaries, "\n")
		if ch.oversized {
			text = truncateLines(text, c.maxChunkSize)
		}
		units = append(units, PromptUnit{
			Index:     len(units),
			Kind:      KindChunkDetail,
			Budget:    c.maxChunkSize,
			Text:      c.buildChunkPrompt(projectName, text, i+1, len(chunks)),
			Oversized: ch.oversized,
		})
	}

	units = append(units, PromptUnit{
		Index:  len(units),
		Kind:   KindArchitecture,
		Budget: c.maxChunkSize,
		Text:   c.buildArchitecturePrompt(projectName, records),
	})
	units = append(units, PromptUnit{
		Index:  len(units),
		Kind:   KindUsageExample,
		Budget: c.maxChunkSize,
		Text:   c.buildUsagePrompt(projectName, records),
	})

	return units
}

// buildOverviewPrompt lists every file with its language and structure counts.
func (c *Composer) buildOverviewPrompt(projectName string, records []extractor.FileRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are a senior software engineer analyzing a codebase called %q.\n", projectName)
	sb.WriteString("Your task is to write the opening of a README.md for it.\n\n")

	sb.WriteString("## Project Overview\n")
	fmt.Fprintf(&sb, "Project Name: %s\n", projectName)
	fmt.Fprintf(&sb, "Total Files: %d\n\n", len(records))

	sb.WriteString("## File Structure\n")
	for _, rec := range records {
		fmt.Fprintf(&sb, "- %s (%s): %d classes, %d functions, %d imports\n",
			rec.Path, rec.Language,
			len(rec.Structure.Classes), len(rec.Structure.Functions), len(rec.Structure.Imports))
		if doc := rec.Structure.Docstring; doc != "" {
			fmt.Fprintf(&sb, "  Description: %s\n", truncate(doc, 200))
		}
	}

	sb.WriteString(`
## Task
Based on this file inventory, write the README's opening:

1. A clear, engaging description of what this project does
2. A short feature list highlighting its main capabilities

Write professional markdown body text. Do not emit section headers; they are
added during assembly. Do not invent capabilities not supported by the files
listed above.
`)

	return sb.String()
}

// buildChunkPrompt wraps one chunk's structure listing in its instructions.
func (c *Composer) buildChunkPrompt(projectName, structureText string, part, total int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are documenting the key components of the codebase %q.\n\n", projectName)
	fmt.Fprintf(&sb, "## Code Structure (part %d of %d)\n", part, total)
	sb.WriteString(structureText)
	sb.WriteString(`
## Task
Describe the purpose and responsibilities of the files, classes, and
functions listed above. Group related components, call out notable
relationships, and keep each description to one or two sentences. Respond in
markdown body text without top-level headers.
`)

	return sb.String()
}

// buildArchitecturePrompt synthesizes cross-file relationships: directory
// grouping, the resolved module dependency graph, and external libraries.
func (c *Composer) buildArchitecturePrompt(projectName string, records []extractor.FileRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Analyze the architecture of the codebase %q and provide a structured overview.\n\n", projectName)

	sb.WriteString("## Project Structure\n")
	for _, dir := range groupByDirectory(records) {
		fmt.Fprintf(&sb, "### Directory: %s\n", dir.name)
		for _, rec := range dir.records {
			fmt.Fprintf(&sb, "- %s (%s): %d classes, %d functions\n",
				baseName(rec.Path), rec.Language,
				len(rec.Structure.Classes), len(rec.Structure.Functions))
		}
	}

	if edges := moduleEdges(records); len(edges) > 0 {
		sb.WriteString("\n## Module Relationships\n")
		for _, edge := range edges {
			fmt.Fprintf(&sb, "- %s\n", edge)
		}
	}

	external := externalModules(records)
	sb.WriteString("\n## Dependency Analysis\n")
	fmt.Fprintf(&sb, "External Dependencies: %d\n", len(external))
	if len(external) > 0 {
		sb.WriteString("Key External Libraries:\n")
		for i, dep := range external {
			if i == maxListedExternalDeps {
				break
			}
			fmt.Fprintf(&sb, "- %s\n", dep)
		}
	}

	sb.WriteString(`
## Architecture Analysis Task
Based on this structure, provide:

1. **Architecture Pattern**: what design pattern(s) the project follows
2. **Entry Points**: the main entry points to the application
3. **Core Components**: the main functional areas/modules
4. **Data Flow**: how data flows through the application
5. **Configuration**: how the application is configured
6. **Testing Strategy**: what testing approach is used

Format your response as a clear, structured analysis suitable for a README's
Architecture section, in markdown body text without top-level headers.
`)

	return sb.String()
}

// buildUsagePrompt surfaces entry-point candidates for usage examples.
func (c *Composer) buildUsagePrompt(projectName string, records []extractor.FileRecord) string {
	var mainFiles, cliFiles, configFiles []string
	for _, rec := range records {
		name := strings.ToLower(baseName(rec.Path))
		switch {
		case strings.Contains(name, "main") || name == "__main__.py" || name == "index.js" || name == "index.ts":
			mainFiles = append(mainFiles, rec.Path)
		case strings.Contains(name, "cli") || strings.Contains(name, "command"):
			cliFiles = append(cliFiles, rec.Path)
		case strings.Contains(name, "config") || strings.Contains(name, "settings"):
			configFiles = append(configFiles, rec.Path)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate usage examples for the project %q based on its code analysis.\n\n", projectName)

	sb.WriteString("## Entry Points Analysis\n")
	writeFileList(&sb, "Main Files", mainFiles)
	writeFileList(&sb, "CLI Files", cliFiles)
	writeFileList(&sb, "Configuration Files", configFiles)
	if len(mainFiles)+len(cliFiles)+len(configFiles) == 0 {
		sb.WriteString("No obvious entry points were detected; treat the project as a library.\n")
	}

	sb.WriteString(`
## Task
Generate practical usage documentation:

1. **Installation**: step-by-step installation instructions
2. **Basic Usage**: simple examples of how to use the project
3. **Configuration**: how to configure it for different use cases
4. **CLI Usage**: command-line examples if applicable

Make the examples practical and copy-pasteable. Use fenced code blocks with
proper syntax highlighting. Respond in markdown body text without top-level
headers.
`)

	return sb.String()
}

func writeFileList(sb *strings.Builder, title string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s\n", title)
	for _, p := range paths {
		fmt.Fprintf(sb, "- %s\n", p)
	}
}

// directoryGroup holds the records of one directory, in scan order.
type directoryGroup struct {
	name    string
	records []extractor.FileRecord
}

// groupByDirectory groups records by their containing directory, sorted by
// directory name for deterministic output.
func groupByDirectory(records []extractor.FileRecord) []directoryGroup {
	byDir := make(map[string][]extractor.FileRecord)
	for _, rec := range records {
		dir := "root"
		if idx := strings.LastIndex(rec.Path, "/"); idx != -1 {
			dir = rec.Path[:idx]
		}
		byDir[dir] = append(byDir[dir], rec)
	}

	names := make([]string, 0, len(byDir))
	for name := range byDir {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]directoryGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, directoryGroup{name: name, records: byDir[name]})
	}
	return groups
}

func baseName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		return path[idx+1:]
	}
	return path
}
