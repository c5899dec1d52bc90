package assembler

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Validate checks the assembled document's structural health: every expected
// level-2 header appears exactly once and all code fences are closed. It
// returns issues only; the document is always written as-is.
func Validate(markdown string, expected []string) []Issue {
	var issues []Issue

	counts := headingCounts([]byte(markdown))
	for _, header := range expected {
		switch counts[header] {
		case 0:
			issues = append(issues, Issue{
				Section: header,
				Message: "expected section header missing",
			})
		case 1:
			// ok
		default:
			issues = append(issues, Issue{
				Section: header,
				Message: fmt.Sprintf("section header appears %d times", counts[header]),
			})
		}
	}

	if line, ok := unclosedFence(markdown); ok {
		issues = append(issues, Issue{
			Message: fmt.Sprintf("unclosed code fence opened at line %d", line),
		})
	}

	return issues
}

// headingCounts walks the goldmark AST and counts level-2 heading texts.
func headingCounts(source []byte) map[string]int {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	counts := make(map[string]int)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 2 {
			return ast.WalkContinue, nil
		}
		counts[headingText(heading, source)]++
		return ast.WalkSkipChildren, nil
	})
	return counts
}

func headingText(heading *ast.Heading, source []byte) string {
	var sb strings.Builder
	for i := 0; i < heading.Lines().Len(); i++ {
		seg := heading.Lines().At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimSpace(sb.String())
}

// unclosedFence scans lines for fence balance. The AST cannot report this:
// goldmark silently closes an unterminated fence at end of document.
func unclosedFence(markdown string) (int, bool) {
	open := false
	openLine := 0
	for i, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if open {
				open = false
			} else {
				open = true
				openLine = i + 1
			}
		}
	}
	return openLine, open
}
