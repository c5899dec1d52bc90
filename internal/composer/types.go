package composer

// PromptKind identifies which README section a prompt targets.
type PromptKind string

const (
	KindOverview     PromptKind = "overview"
	KindChunkDetail  PromptKind = "chunk-detail"
	KindArchitecture PromptKind = "architecture"
	KindUsageExample PromptKind = "usage-example"
)

// PromptUnit is one discrete request to the generative model. The full
// sequence is constructed before any inference call; Index is the ordering
// contract the assembler relies on to place responses.
type PromptUnit struct {
	Index int
	Kind  PromptKind

	// Budget is the target token budget for this prompt's text.
	Budget int

	Text string

	// Oversized marks a single-file chunk whose structure summary alone
	// exceeded the budget. Its text is truncated at whole-line boundaries.
	Oversized bool
}

// chunk groups file summaries that fit one prompt's token budget.
type chunk struct {
	paths     []string
	summaries []string
	tokens    int
	oversized bool
}
