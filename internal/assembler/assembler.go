package assembler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/repowhisperer/repowhisperer/internal/composer"
)

// Section headers are fixed per prompt kind. Chunk-detail responses share
// one Components section; all other kinds own a section each.
const (
	headerOverview     = "Overview"
	headerComponents   = "Key Components"
	headerArchitecture = "Architecture"
	headerUsage        = "Usage"
)

// Assembler merges generated sections into the final README document.
type Assembler struct {
	projectName string
	modelID     string
	now         func() time.Time
	newRunID    func() string
}

// New creates an assembler for the named project. modelID appears in the
// generation footer.
func New(projectName, modelID string) *Assembler {
	return &Assembler{
		projectName: projectName,
		modelID:     modelID,
		now:         time.Now,
		newRunID:    func() string { return uuid.NewString() },
	}
}

// Assemble merges the responses against the prompt sequence, strictly by
// ordering index. The units define which sections the document must carry; a
// unit with no response at all gets a placeholder, the same as one whose
// response cleans down to nothing. Responses are matched by index, never by
// arrival order. Issues are recorded, never fatal.
func (a *Assembler) Assemble(units []composer.PromptUnit, sections []GeneratedSection) AssembledDocument {
	byIndex := make(map[int]GeneratedSection, len(sections))
	for _, gs := range sections {
		byIndex[gs.Index] = gs
	}

	ordered := make([]composer.PromptUnit, len(units))
	copy(ordered, units)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	var (
		out    []Section
		issues []Issue
	)

	componentsOpen := false
	for _, unit := range ordered {
		header := headerFor(unit.Kind)

		var body string
		if gs, ok := byIndex[unit.Index]; ok {
			body = StripDuplicateHeader(Clean(gs.Text), header)
		}

		sec := Section{Index: unit.Index, Kind: unit.Kind, Header: header, Body: body}
		if body == "" {
			sec.Placeholder = true
			sec.Body = placeholderFor(unit.Kind)
			issues = append(issues, Issue{
				Index:   unit.Index,
				Section: header,
				Message: "no usable model response; placeholder inserted",
			})
		}

		// Chunk-detail sections share the Components header; only the first
		// one emits it.
		if unit.Kind == composer.KindChunkDetail && componentsOpen {
			sec.Header = ""
		}
		if unit.Kind == composer.KindChunkDetail {
			componentsOpen = true
		}

		out = append(out, sec)
	}

	markdown := a.render(out)
	issues = append(issues, Validate(markdown, expectedHeaders(out))...)

	return AssembledDocument{Markdown: markdown, Sections: out, Issues: issues}
}

func (a *Assembler) render(sections []Section) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n", a.projectName)

	for _, sec := range sections {
		if sec.Header != "" {
			fmt.Fprintf(&sb, "\n## %s\n", sec.Header)
		}
		sb.WriteString("\n")
		sb.WriteString(sec.Body)
		sb.WriteString("\n")
	}

	timestamp := a.now().UTC().Format("2006-01-02 15:04:05 UTC")
	fmt.Fprintf(&sb, "\n---\n*Generated by RepoWhisperer (%s) on %s, run %s*\n",
		a.modelID, timestamp, a.newRunID())

	return sb.String()
}

func headerFor(kind composer.PromptKind) string {
	switch kind {
	case composer.KindOverview:
		return headerOverview
	case composer.KindChunkDetail:
		return headerComponents
	case composer.KindArchitecture:
		return headerArchitecture
	case composer.KindUsageExample:
		return headerUsage
	default:
		return string(kind)
	}
}

func placeholderFor(kind composer.PromptKind) string {
	switch kind {
	case composer.KindOverview:
		return "*Project overview could not be generated.*"
	case composer.KindChunkDetail:
		return "*Component documentation for this part of the codebase could not be generated.*"
	case composer.KindArchitecture:
		return "*Architecture analysis could not be generated.*"
	case composer.KindUsageExample:
		return "*Usage examples could not be generated.*"
	default:
		return "*Section could not be generated.*"
	}
}

// expectedHeaders lists the distinct section headers the document must carry,
// in order of first appearance.
func expectedHeaders(sections []Section) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, sec := range sections {
		h := headerFor(sec.Kind)
		if !seen[h] {
			seen[h] = true
			headers = append(headers, h)
		}
	}
	return headers
}
