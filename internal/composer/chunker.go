package composer

import (
	"strings"

	"github.com/repowhisperer/repowhisperer/internal/extractor"
)

// estimateTokens estimates token count (rough approximation: 1 token ≈ 4
// chars). The estimate is a pure function of the text, so chunking stays
// deterministic and independent of any model vocabulary.
func estimateTokens(text string) int {
	return len(text) / 4
}

// buildChunks accumulates file summaries into chunks that fit maxChunkSize
// estimated tokens. A single file whose summary alone exceeds the budget is
// never split mid-declaration; it becomes its own chunk flagged oversized.
func buildChunks(records []extractor.FileRecord, maxChunkSize int, includeSnippets bool) []chunk {
	chunks := []chunk{}
	current := chunk{}

	flush := func() {
		if len(current.summaries) > 0 {
			chunks = append(chunks, current)
			current = chunk{}
		}
	}

	for _, rec := range records {
		summary := FileSummary(rec, includeSnippets)
		tokens := estimateTokens(summary)

		if tokens > maxChunkSize {
			flush()
			chunks = append(chunks, chunk{
				paths:     []string{rec.Path},
				summaries: []string{summary},
				tokens:    tokens,
				oversized: true,
			})
			continue
		}

		if current.tokens > 0 && current.tokens+tokens > maxChunkSize {
			flush()
		}

		current.paths = append(current.paths, rec.Path)
		current.summaries = append(current.summaries, summary)
		current.tokens += tokens
	}
	flush()

	return chunks
}

// truncateLines trims text to the token budget at whole-line boundaries, so
// a declaration's summary line is dropped entirely rather than malformed.
func truncateLines(text string, budget int) string {
	if estimateTokens(text) <= budget {
		return text
	}

	lines := strings.Split(text, "\n")
	var kept []string
	used := 0
	for _, line := range lines {
		cost := estimateTokens(line) + 1
		if used+cost > budget {
			break
		}
		kept = append(kept, line)
		used += cost
	}

	// The first line names the file; keep it even when it alone busts the
	// budget so the oversized chunk stays identifiable.
	if len(kept) == 0 {
		kept = lines[:1]
	}

	return strings.Join(kept, "\n") + "\n... (structure listing truncated)"
}
