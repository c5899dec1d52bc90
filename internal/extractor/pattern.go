package extractor

import (
	"regexp"
	"strings"
)

// paramStyle selects how a parameter's name is positioned within its
// declaration text.
type paramStyle int

const (
	// paramLeading: name comes first ("x", "x: T", "x int").
	paramLeading paramStyle = iota
	// paramTrailing: name comes last ("int x", "final String name").
	paramTrailing
)

// patternExtractor approximates CodeStructure for languages without a full
// grammar walk. It matches declaration keywords line by line, so nested
// definitions may be under-reported. That imprecision is an accepted
// tradeoff of the pattern-based path.
type patternExtractor struct {
	importRules   []*regexp.Regexp // group 1: module
	functionRules []*regexp.Regexp // group 1: name, optional group 2: params
	classRules    []*regexp.Regexp // group 1: name, optional group 2: base
	keywords      map[string]bool  // names to reject (control-flow false positives)
	params        paramStyle
}

// controlKeywords are names a C-style function regex commonly mistakes for
// declarations.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true,
	"return": true, "catch": true, "sizeof": true, "defer": true,
}

func (p *patternExtractor) Extract(source []byte, contextLines int) CodeStructure {
	lines := strings.Split(string(source), "\n")
	cs := CodeStructure{
		LineCount: len(lines),
		Docstring: leadingComment(lines),
	}

	for i, line := range lines {
		lineNum := i + 1

		for _, re := range p.importRules {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				cs.Imports = append(cs.Imports, ImportInfo{Module: m[1], Line: lineNum})
			}
		}

		for _, re := range p.classRules {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				info := ClassInfo{
					Name:      m[1],
					StartLine: lineNum,
					EndLine:   lineNum,
					Snippet:   snippetOf(lines, lineNum, contextLines),
				}
				if len(m) > 2 && m[2] != "" {
					info.Bases = append(info.Bases, m[2])
				}
				cs.Classes = append(cs.Classes, info)
			}
		}

		for _, re := range p.functionRules {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				name := m[1]
				if p.keywords[name] {
					continue
				}
				fn := FunctionInfo{
					Name:      name,
					StartLine: lineNum,
					EndLine:   lineNum,
					IsAsync:   strings.Contains(line[:strings.Index(line, name)+1], "async"),
					Snippet:   snippetOf(lines, lineNum, contextLines),
				}
				if len(m) > 2 {
					fn.Parameters = splitParams(m[2], p.params)
				}
				cs.Functions = append(cs.Functions, fn)
			}
		}
	}

	return cs
}

// splitParams extracts bare parameter names from a declaration's parameter
// list. Nested generics/defaults are handled best-effort only.
func splitParams(raw string, style paramStyle) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var names []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, "="); idx != -1 {
			part = strings.TrimSpace(part[:idx])
		}

		var name string
		switch style {
		case paramLeading:
			if idx := strings.Index(part, ":"); idx != -1 {
				part = strings.TrimSpace(part[:idx])
			}
			fields := strings.Fields(part)
			if len(fields) > 0 {
				name = fields[0]
			}
		case paramTrailing:
			part = strings.TrimRight(part, "*& ")
			fields := strings.Fields(part)
			if len(fields) > 0 {
				name = strings.TrimLeft(fields[len(fields)-1], "*&")
			}
		}

		if name != "" && name != "void" {
			names = append(names, name)
		}
	}
	return names
}

// leadingComment captures the comment block at the top of a file as the
// module description, mirroring what docstrings provide for Python.
func leadingComment(lines []string) string {
	var out []string
	inBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock:
			end := strings.Contains(trimmed, "*/")
			trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "*"), "*/")
			trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "*/"))
			if trimmed != "" {
				out = append(out, trimmed)
			}
			if end {
				return strings.Join(out, " ")
			}
		case strings.HasPrefix(trimmed, "/*"):
			inBlock = true
			body := strings.TrimPrefix(trimmed, "/*")
			if strings.Contains(body, "*/") {
				body = body[:strings.Index(body, "*/")]
				if s := strings.TrimSpace(body); s != "" {
					out = append(out, s)
				}
				return strings.Join(out, " ")
			}
			if s := strings.TrimSpace(body); s != "" {
				out = append(out, s)
			}
		case strings.HasPrefix(trimmed, "//"):
			if s := strings.TrimSpace(strings.TrimPrefix(trimmed, "//")); s != "" {
				out = append(out, s)
			}
		case strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "#include"):
			if s := strings.TrimSpace(strings.TrimPrefix(trimmed, "#")); s != "" && !strings.HasPrefix(s, "!") {
				out = append(out, s)
			}
		case trimmed == "":
			if len(out) > 0 {
				return strings.Join(out, " ")
			}
		default:
			return strings.Join(out, " ")
		}
	}
	return strings.Join(out, " ")
}

// newJSExtractor matches JavaScript and TypeScript declarations.
func newJSExtractor() *patternExtractor {
	return &patternExtractor{
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`import\s+.*?\s+from\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`import\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
		},
		functionRules: []*regexp.Regexp{
			regexp.MustCompile(`(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*\(([^)]*)\)`),
			regexp.MustCompile(`(?:export\s+)?const\s+(\w+)\s*=\s*(?:async\s+)?\(([^)]*)\)\s*=>`),
		},
		classRules: []*regexp.Regexp{
			regexp.MustCompile(`(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+(\w+)(?:\s+extends\s+([\w.]+))?`),
		},
		keywords: controlKeywords,
		params:   paramLeading,
	}
}

// newJavaExtractor matches Java declarations.
func newJavaExtractor() *patternExtractor {
	return &patternExtractor{
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.*]+)\s*;`),
		},
		functionRules: []*regexp.Regexp{
			regexp.MustCompile(`(?:public|private|protected)\s+(?:static\s+)?(?:final\s+)?(?:[\w<>\[\],\s]+\s+)?(\w+)\s*\(([^)]*)\)`),
		},
		classRules: []*regexp.Regexp{
			regexp.MustCompile(`(?:public\s+)?(?:abstract\s+|final\s+)?(?:class|interface|enum)\s+(\w+)(?:\s+extends\s+([\w.<>]+))?`),
		},
		keywords: controlKeywords,
		params:   paramTrailing,
	}
}

// newCExtractor matches C and C++ declarations.
func newCExtractor() *patternExtractor {
	return &patternExtractor{
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`#include\s*[<"]([^>"]+)[>"]`),
		},
		functionRules: []*regexp.Regexp{
			regexp.MustCompile(`^[A-Za-z_][\w\s*&:<>,]*?\b(\w+)\s*\(([^)]*)\)\s*(?:const\s*)?\{`),
		},
		classRules: []*regexp.Regexp{
			regexp.MustCompile(`^\s*(?:class|struct)\s+(\w+)(?:\s*:\s*(?:public|protected|private)?\s*([\w:]+))?`),
		},
		keywords: controlKeywords,
		params:   paramTrailing,
	}
}

// newRustExtractor matches Rust declarations.
func newRustExtractor() *patternExtractor {
	return &patternExtractor{
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`^\s*use\s+([\w:]+)`),
		},
		functionRules: []*regexp.Regexp{
			regexp.MustCompile(`(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(\w+)\s*(?:<[^>]*>)?\s*\(([^)]*)\)`),
		},
		classRules: []*regexp.Regexp{
			regexp.MustCompile(`(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait)\s+(\w+)`),
		},
		keywords: controlKeywords,
		params:   paramLeading,
	}
}

// newFallbackExtractor matches function-like patterns for languages without
// dedicated rules.
func newFallbackExtractor() *patternExtractor {
	return &patternExtractor{
		functionRules: []*regexp.Regexp{
			regexp.MustCompile(`def\s+(\w+)\s*\(([^)]*)\)`),
			regexp.MustCompile(`function\s+(\w+)\s*\(([^)]*)\)`),
			regexp.MustCompile(`^\s*(\w+)\s*\(([^)]*)\)\s*\{`),
		},
		keywords: controlKeywords,
		params:   paramLeading,
	}
}
