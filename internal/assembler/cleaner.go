package assembler

import (
	"regexp"
	"strings"
)

var (
	responsePrefixes = []string{
		"Here's the README.md content:",
		"Here is the README.md content:",
		"Here's the README.md:",
		"Here is the README.md:",
		"Here's the README:",
		"Here is the README:",
		"# README.md",
		"```markdown",
		"```md",
	}

	responseSuffixes = []string{
		"```",
		"---",
		"End of README",
	}

	headerSpacingRe    = regexp.MustCompile(`\n(#+ [^\n]+)\n([^\n])`)
	excessBlankLinesRe = regexp.MustCompile(`\n[ \t]*\n([ \t]*\n)+`)
)

// Clean normalizes one model response: instruction echoes and markdown
// wrappers are stripped, a trailing sentence fragment cut by the token limit
// is dropped, and spacing is regularized. Cleaning is idempotent.
func Clean(text string) string {
	cleaned := strings.TrimSpace(text)

	for _, prefix := range responsePrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
		}
	}
	for _, suffix := range responseSuffixes {
		if !strings.HasSuffix(cleaned, suffix) {
			continue
		}
		// A trailing fence is a wrapper artifact only when it leaves the
		// fences unbalanced; a response ending with a closed code block
		// keeps its closing fence.
		if suffix == "```" && strings.Count(cleaned, "```")%2 == 0 {
			continue
		}
		cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(suffix)])
	}

	cleaned = dropTrailingFragment(cleaned)
	cleaned = fixSpacing(cleaned)

	return strings.TrimSpace(cleaned)
}

// dropTrailingFragment removes a final line that was visibly cut mid-sentence
// by the completion token limit. Lines ending in terminal punctuation, list
// markers, headers, table rows, and code fences are kept as-is.
func dropTrailingFragment(text string) string {
	idx := strings.LastIndex(text, "\n")
	if idx == -1 {
		return text
	}
	last := strings.TrimSpace(text[idx+1:])
	if last == "" || !looksCut(last) {
		return text
	}
	return strings.TrimRight(text[:idx], "\n")
}

func looksCut(line string) bool {
	switch {
	case strings.HasPrefix(line, "#"),
		strings.HasPrefix(line, "-"),
		strings.HasPrefix(line, "*"),
		strings.HasPrefix(line, "|"),
		strings.HasPrefix(line, "```"),
		strings.HasPrefix(line, ">"):
		return false
	}
	switch line[len(line)-1] {
	case '.', '!', '?', ':', ')', '`', '"':
		return false
	}
	// A short plain-text tail without terminal punctuation reads as a cut.
	return !strings.HasSuffix(line, "...")
}

// fixSpacing ensures a blank line after headers and collapses runs of blank
// lines, mirroring the reference formatting fixes.
func fixSpacing(text string) string {
	text = headerSpacingRe.ReplaceAllString(text, "\n$1\n\n$2")
	text = excessBlankLinesRe.ReplaceAllString(text, "\n\n")
	return text
}

// StripDuplicateHeader removes a leading header from a section body when it
// repeats the header the assembler is about to add.
func StripDuplicateHeader(body, header string) string {
	trimmed := strings.TrimSpace(body)
	for _, prefix := range []string{"# ", "## ", "### "} {
		candidate := prefix + header
		if strings.HasPrefix(trimmed, candidate+"\n") {
			return strings.TrimSpace(trimmed[len(candidate):])
		}
		if trimmed == candidate {
			return ""
		}
	}
	return trimmed
}
