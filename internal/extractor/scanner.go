package extractor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"

	"github.com/repowhisperer/repowhisperer/internal/config"
)

// languageExtractor produces a CodeStructure from raw source text.
// Implementations must never panic on malformed input; unparsable files are
// reported through the ParseError flag instead.
type languageExtractor interface {
	Extract(source []byte, contextLines int) CodeStructure
}

// Scanner walks a project directory and extracts structure from every
// eligible source file.
type Scanner struct {
	excludeDirs  map[string]bool
	excludeFiles []glob.Glob
	extensions   map[string]bool
	contextLines int

	extractors map[Language]languageExtractor
	fallback   languageExtractor
}

// NewScanner creates a scanner from the parsing configuration.
// contextLines controls how many source lines are captured as a snippet for
// each declaration; 0 disables snippet capture.
func NewScanner(cfg config.ParsingConfig, contextLines int) (*Scanner, error) {
	s := &Scanner{
		excludeDirs:  make(map[string]bool, len(cfg.ExcludeDirs)),
		extensions:   make(map[string]bool, len(cfg.SupportedExtensions)),
		contextLines: contextLines,
		extractors: map[Language]languageExtractor{
			LangPython:     newPythonExtractor(),
			LangJavaScript: newJSExtractor(),
			LangTypeScript: newJSExtractor(),
			LangJava:       newJavaExtractor(),
			LangC:          newCExtractor(),
			LangCPP:        newCExtractor(),
			LangGo:         newGoExtractor(),
			LangRust:       newRustExtractor(),
		},
		fallback: newFallbackExtractor(),
	}

	for _, dir := range cfg.ExcludeDirs {
		s.excludeDirs[dir] = true
	}
	for _, ext := range cfg.SupportedExtensions {
		s.extensions[strings.ToLower(ext)] = true
	}
	for _, pattern := range cfg.ExcludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude_files pattern %q: %w", pattern, err)
		}
		s.excludeFiles = append(s.excludeFiles, g)
	}

	return s, nil
}

// Scan walks rootDir and returns one FileRecord per eligible file, ordered
// lexicographically by relative path. Per-file extraction failures are
// recorded on the file's CodeStructure; only an unreadable root aborts the
// scan.
func (s *Scanner) Scan(rootDir string) ([]FileRecord, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("cannot read project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", rootDir)
	}

	var paths []string
	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable subdirectory degrades to a partial scan.
			if path == rootDir {
				return err
			}
			return nil
		}

		if d.IsDir() {
			if path == rootDir {
				return nil
			}
			if s.shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		// WalkDir does not follow symlinks into directories; skip file
		// symlinks too so a link cannot smuggle content from outside the
		// root into the scan.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if s.shouldExcludeFile(d.Name()) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot read project root: %w", err)
	}

	records := make([]FileRecord, 0, len(paths))
	for _, path := range paths {
		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			continue
		}
		records = append(records, s.extractFile(path, filepath.ToSlash(rel)))
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records, nil
}

// shouldExcludeDir reports whether a directory name is excluded from the walk.
// Dotted directories are always excluded, matching the reference behavior.
func (s *Scanner) shouldExcludeDir(name string) bool {
	return s.excludeDirs[name] || strings.HasPrefix(name, ".")
}

// shouldExcludeFile reports whether a basename is filtered out, either by an
// exclude glob or by not having a supported extension.
func (s *Scanner) shouldExcludeFile(name string) bool {
	for _, g := range s.excludeFiles {
		if g.Match(name) {
			return true
		}
	}
	return !s.extensions[strings.ToLower(filepath.Ext(name))]
}

// extractFile reads one file and derives its structure. The source bytes are
// released as soon as extraction completes.
func (s *Scanner) extractFile(path, relPath string) FileRecord {
	rec := FileRecord{
		Path:     relPath,
		Language: DetectLanguage(relPath),
	}

	source, err := os.ReadFile(path)
	if err != nil {
		rec.Structure = CodeStructure{ParseError: true}
		return rec
	}
	rec.Size = int64(len(source))

	// A file that matched a source extension but is not valid text is
	// recorded as an extraction error, never parsed.
	if !utf8.Valid(source) {
		rec.Structure = CodeStructure{ParseError: true}
		return rec
	}

	ext, ok := s.extractors[rec.Language]
	if !ok {
		ext = s.fallback
	}
	rec.Structure = ext.Extract(source, s.contextLines)
	if rec.Structure.LineCount == 0 {
		rec.Structure.LineCount = countLines(source)
	}
	return rec
}

func countLines(source []byte) int {
	return len(strings.Split(string(source), "\n"))
}

// snippetOf captures up to contextLines lines starting at startLine
// (1-indexed). It is the only source text retained past extraction.
func snippetOf(lines []string, startLine, contextLines int) string {
	if contextLines <= 0 || startLine < 1 || startLine > len(lines) {
		return ""
	}
	end := startLine - 1 + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[startLine-1:end], "\n")
}
