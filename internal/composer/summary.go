package composer

import (
	"fmt"
	"strings"

	"github.com/repowhisperer/repowhisperer/internal/extractor"
)

const (
	maxListedImports   = 5
	maxListedMethods   = 3
	maxDocstringLength = 100
)

// FileSummary serializes one file's extracted structure into the
// indentation-normalized listing embedded in chunk-detail prompts. The model
// responds from this text alone; no original source accompanies it.
func FileSummary(rec extractor.FileRecord, includeSnippets bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "### File: %s (%s)\n", rec.Path, rec.Language)

	if rec.Structure.ParseError {
		sb.WriteString("- Could not be parsed; structure unavailable.\n")
		return sb.String()
	}

	if doc := rec.Structure.Docstring; doc != "" {
		fmt.Fprintf(&sb, "Description: %s\n", truncate(doc, 200))
	}

	if imports := rec.Structure.Imports; len(imports) > 0 {
		sb.WriteString("Imports:\n")
		for i, imp := range imports {
			if i == maxListedImports {
				fmt.Fprintf(&sb, "  - ... and %d more\n", len(imports)-maxListedImports)
				break
			}
			fmt.Fprintf(&sb, "  - %s\n", imp.Module)
		}
	}

	if classes := rec.Structure.Classes; len(classes) > 0 {
		sb.WriteString("Classes:\n")
		for _, cls := range classes {
			writeClass(&sb, cls)
			if includeSnippets && cls.Snippet != "" {
				writeSnippet(&sb, string(rec.Language), cls.Snippet)
			}
		}
	}

	if funcs := rec.Structure.Functions; len(funcs) > 0 {
		sb.WriteString("Functions:\n")
		for _, fn := range funcs {
			writeFunction(&sb, fn)
			if includeSnippets && fn.Snippet != "" {
				writeSnippet(&sb, string(rec.Language), fn.Snippet)
			}
		}
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, cls extractor.ClassInfo) {
	fmt.Fprintf(sb, "  - %s", cls.Name)
	if len(cls.Bases) > 0 {
		fmt.Fprintf(sb, "(%s)", strings.Join(cls.Bases, ", "))
	}
	fmt.Fprintf(sb, " %s", formatLineRange(cls.StartLine, cls.EndLine))
	if cls.Docstring != "" {
		fmt.Fprintf(sb, ": %s", truncate(cls.Docstring, maxDocstringLength))
	}
	sb.WriteString("\n")

	if len(cls.Methods) > 0 {
		names := make([]string, 0, maxListedMethods)
		for i, m := range cls.Methods {
			if i == maxListedMethods {
				break
			}
			names = append(names, signature(m))
		}
		fmt.Fprintf(sb, "    methods: %s", strings.Join(names, ", "))
		if extra := len(cls.Methods) - maxListedMethods; extra > 0 {
			fmt.Fprintf(sb, " + %d more", extra)
		}
		sb.WriteString("\n")
	}
}

func writeFunction(sb *strings.Builder, fn extractor.FunctionInfo) {
	fmt.Fprintf(sb, "  - %s %s", signature(fn), formatLineRange(fn.StartLine, fn.EndLine))
	if fn.IsAsync {
		sb.WriteString(" [async]")
	}
	if len(fn.Decorators) > 0 {
		fmt.Fprintf(sb, " [@%s]", strings.Join(fn.Decorators, ", @"))
	}
	if fn.Docstring != "" {
		fmt.Fprintf(sb, ": %s", truncate(fn.Docstring, maxDocstringLength))
	}
	sb.WriteString("\n")
}

func writeSnippet(sb *strings.Builder, language, snippet string) {
	fmt.Fprintf(sb, "    ```%s\n", language)
	for _, line := range strings.Split(snippet, "\n") {
		fmt.Fprintf(sb, "    %s\n", line)
	}
	sb.WriteString("    ```\n")
}

// signature renders "name(a, b) -> ret".
func signature(fn extractor.FunctionInfo) string {
	sig := fn.Name + "(" + strings.Join(fn.Parameters, ", ") + ")"
	if fn.ReturnType != "" {
		sig += " -> " + fn.ReturnType
	}
	return sig
}

// formatLineRange formats line numbers into a human-readable range.
func formatLineRange(start, end int) string {
	if start == end {
		return fmt.Sprintf("(line %d)", start)
	}
	return fmt.Sprintf("(lines %d-%d)", start, end)
}

// truncate caps a string at n runes, collapsing newlines first so docstrings
// stay on one listing line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
