package extractor

import (
	"path/filepath"
	"strings"
)

// DetectLanguage maps a file path to its language tag by extension.
func DetectLanguage(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".py":
		return LangPython
	case ".js", ".jsx", ".mjs":
		return LangJavaScript
	case ".ts", ".tsx":
		return LangTypeScript
	case ".java":
		return LangJava
	case ".c", ".h":
		return LangC
	case ".cpp", ".cc", ".cxx", ".hpp":
		return LangCPP
	case ".go":
		return LangGo
	case ".rs":
		return LangRust
	default:
		return LangOther
	}
}
