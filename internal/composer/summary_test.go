package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repowhisperer/repowhisperer/internal/extractor"
)

// Test Plan for FileSummary:
// - Header carries path and language
// - Parse errors short-circuit to a single note
// - Imports capped at five with an overflow note
// - Classes show bases, line ranges, capped method list
// - Functions show signature, async and decorator markers, docstring
// - Snippets appear only when requested

func TestFileSummary_FullStructure(t *testing.T) {
	t.Parallel()

	rec := extractor.FileRecord{
		Path:     "svc/app.py",
		Language: extractor.LangPython,
		Structure: extractor.CodeStructure{
			Docstring: "Application service.",
			Imports: []extractor.ImportInfo{
				{Module: "os"}, {Module: "sys"}, {Module: "json"},
				{Module: "re"}, {Module: "abc"}, {Module: "io"}, {Module: "gc"},
			},
			Classes: []extractor.ClassInfo{{
				Name:      "App",
				Bases:     []string{"Base"},
				Docstring: "Main app.",
				StartLine: 10,
				EndLine:   40,
				Methods: []extractor.FunctionInfo{
					{Name: "start", Parameters: []string{"self"}},
					{Name: "stop", Parameters: []string{"self"}},
					{Name: "reload", Parameters: []string{"self"}},
					{Name: "status", Parameters: []string{"self"}},
				},
			}},
			Functions: []extractor.FunctionInfo{{
				Name:       "run",
				Parameters: []string{"argv"},
				ReturnType: "int",
				IsAsync:    true,
				Decorators: []string{"cli.command"},
				Docstring:  "Run the app.",
				StartLine:  42,
				EndLine:    50,
			}},
			LineCount: 60,
		},
	}

	out := FileSummary(rec, false)

	assert.Contains(t, out, "### File: svc/app.py (python)")
	assert.Contains(t, out, "Description: Application service.")
	assert.Contains(t, out, "- ... and 2 more")
	assert.Contains(t, out, "- App(Base) (lines 10-40): Main app.")
	assert.Contains(t, out, "methods: start(self), stop(self), reload(self) + 1 more")
	assert.Contains(t, out, "- run(argv) -> int (lines 42-50) [async] [@cli.command]: Run the app.")
}

func TestFileSummary_ParseError(t *testing.T) {
	t.Parallel()

	rec := extractor.FileRecord{
		Path:      "bad.py",
		Language:  extractor.LangPython,
		Structure: extractor.CodeStructure{ParseError: true},
	}

	out := FileSummary(rec, false)
	assert.Contains(t, out, "Could not be parsed")
	assert.NotContains(t, out, "Classes:")
}

func TestFileSummary_Snippets(t *testing.T) {
	t.Parallel()

	rec := extractor.FileRecord{
		Path:     "x.py",
		Language: extractor.LangPython,
		Structure: extractor.CodeStructure{
			Functions: []extractor.FunctionInfo{{
				Name:      "f",
				StartLine: 1,
				EndLine:   2,
				Snippet:   "def f():\n    pass",
			}},
		},
	}

	withSnippets := FileSummary(rec, true)
	assert.Contains(t, withSnippets, "```python")
	assert.Contains(t, withSnippets, "    def f():")

	withoutSnippets := FileSummary(rec, false)
	assert.NotContains(t, withoutSnippets, "```")
}

func TestFormatLineRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(line 7)", formatLineRange(7, 7))
	assert.Equal(t, "(lines 3-9)", formatLineRange(3, 9))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "one two", truncate("one\n  two", 100))
	long := truncate("word word word word", 9)
	assert.Equal(t, "word word...", long)
}
