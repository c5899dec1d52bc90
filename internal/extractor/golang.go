package extractor

import (
	"regexp"
	"strings"
)

// goExtractor matches Go declarations. Import blocks span multiple lines, so
// it layers block tracking on top of the shared pattern rules.
type goExtractor struct {
	inner *patternExtractor

	singleImport *regexp.Regexp
	blockImport  *regexp.Regexp
}

func newGoExtractor() *goExtractor {
	return &goExtractor{
		inner: &patternExtractor{
			functionRules: []*regexp.Regexp{
				regexp.MustCompile(`^func\s+(?:\([^)]+\)\s+)?(\w+)\s*\(([^)]*)\)`),
			},
			classRules: []*regexp.Regexp{
				regexp.MustCompile(`^type\s+(\w+)\s+(?:struct|interface)\b`),
			},
			keywords: controlKeywords,
			params:   paramLeading,
		},
		singleImport: regexp.MustCompile(`^import\s+(?:\w+\s+)?"([^"]+)"`),
		blockImport:  regexp.MustCompile(`^\s*(?:\w+\s+)?"([^"]+)"`),
	}
}

func (g *goExtractor) Extract(source []byte, contextLines int) CodeStructure {
	cs := g.inner.Extract(source, contextLines)

	lines := strings.Split(string(source), "\n")
	inBlock := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock:
			if trimmed == ")" {
				inBlock = false
				continue
			}
			if m := g.blockImport.FindStringSubmatch(line); m != nil {
				cs.Imports = append(cs.Imports, ImportInfo{Module: m[1], Line: i + 1})
			}
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		default:
			if m := g.singleImport.FindStringSubmatch(trimmed); m != nil {
				cs.Imports = append(cs.Imports, ImportInfo{Module: m[1], Line: i + 1})
			}
		}
	}

	return cs
}
