package assembler

import (
	"github.com/repowhisperer/repowhisperer/internal/composer"
)

// GeneratedSection is one model response keyed to its prompt's ordering
// index. A unit that failed outright has no GeneratedSection at all; the
// assembler detects the gap from the prompt sequence.
type GeneratedSection struct {
	Index int
	Kind  composer.PromptKind
	Text  string
}

// Section is one assembled README section in final document order.
type Section struct {
	Index       int
	Kind        composer.PromptKind
	Header      string
	Body        string
	Placeholder bool
}

// Issue records a problem found while assembling or validating, tied to the
// section's ordering index. Issues never abort assembly.
type Issue struct {
	Index   int
	Section string
	Message string
}

// AssembledDocument is the final README plus everything a caller needs to
// report about its quality.
type AssembledDocument struct {
	Markdown string
	Sections []Section
	Issues   []Issue
}

// Valid reports whether assembly and validation recorded no issues.
func (d AssembledDocument) Valid() bool {
	return len(d.Issues) == 0
}
