package extractor

// Language identifies the source language of a scanned file.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangOther      Language = "other"
)

// FileRecord pairs an eligible file with its extracted structure.
// The raw source text is read once during extraction and discarded;
// only the derived structure is retained.
type FileRecord struct {
	// Path is the forward-slash normalized path relative to the scan root.
	Path     string
	Language Language
	Size     int64

	Structure CodeStructure
}

// CodeStructure is the extracted structural summary of one source file.
type CodeStructure struct {
	Classes   []ClassInfo
	Functions []FunctionInfo
	Imports   []ImportInfo

	// Docstring is the module-level docstring or leading comment, if any.
	Docstring string

	// LineCount is the total number of lines in the file.
	LineCount int

	// ParseError marks files that could not be decoded or parsed.
	// Such files keep empty class/function/import lists.
	ParseError bool
}

// ClassInfo describes one class declaration.
type ClassInfo struct {
	Name string

	// Bases holds base-class names as written in the source. They are not
	// resolved to definitions.
	Bases []string

	Methods   []FunctionInfo
	Docstring string

	StartLine int
	EndLine   int

	// Snippet holds up to context_lines source lines starting at the
	// declaration, captured at parse time. Empty when snippets are disabled.
	Snippet string
}

// FunctionInfo describes one function or method declaration.
type FunctionInfo struct {
	Name       string
	Parameters []string
	ReturnType string
	Docstring  string
	IsAsync    bool
	Decorators []string

	StartLine int
	EndLine   int

	Snippet string
}

// ImportInfo describes one import/include statement.
type ImportInfo struct {
	Module string
	Line   int
}

// Summary aggregates scan results for reporting.
type Summary struct {
	TotalFiles     int
	TotalClasses   int
	TotalFunctions int
	TotalLines     int
	ParseErrors    int
	ByLanguage     map[Language]int
}

// Summarize computes aggregate statistics over a scan result.
func Summarize(records []FileRecord) Summary {
	s := Summary{ByLanguage: make(map[Language]int)}
	for _, rec := range records {
		s.TotalFiles++
		s.TotalClasses += len(rec.Structure.Classes)
		s.TotalFunctions += len(rec.Structure.Functions)
		s.TotalLines += rec.Structure.LineCount
		if rec.Structure.ParseError {
			s.ParseErrors++
		}
		s.ByLanguage[rec.Language]++
	}
	return s
}
