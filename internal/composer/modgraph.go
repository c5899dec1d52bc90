package composer

import (
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/repowhisperer/repowhisperer/internal/extractor"
)

// moduleEdges builds a directed file-dependency graph from import statements
// and returns its edges as "a -> b" lines, sorted for determinism. Resolution
// is purely textual: an import matches another scanned file when it equals
// that file's dotted module path or its bare stem. Unresolved imports are
// treated as external dependencies and ignored here.
func moduleEdges(records []extractor.FileRecord) []string {
	g := graph.New(graph.StringHash, graph.Directed())
	keyToPath := buildKeyMap(records)

	for _, rec := range records {
		_ = g.AddVertex(rec.Path)
	}

	for _, rec := range records {
		for _, imp := range rec.Structure.Imports {
			target, ok := resolveImport(imp.Module, keyToPath)
			if !ok || target == rec.Path {
				continue
			}
			_ = g.AddEdge(rec.Path, target)
		}
	}

	edges, err := g.Edges()
	if err != nil {
		return nil
	}

	lines := make([]string, 0, len(edges))
	for _, e := range edges {
		lines = append(lines, e.Source+" -> "+e.Target)
	}
	sort.Strings(lines)
	return lines
}

// buildKeyMap indexes the module keys a file can be imported under: its
// dotted relative path without extension, and its bare stem when unambiguous.
func buildKeyMap(records []extractor.FileRecord) map[string]string {
	keyToPath := make(map[string]string)
	for _, rec := range records {
		trimmed := strings.TrimSuffix(rec.Path, pathExt(rec.Path))
		keyToPath[strings.ReplaceAll(trimmed, "/", ".")] = rec.Path

		stem := trimmed
		if idx := strings.LastIndex(trimmed, "/"); idx != -1 {
			stem = trimmed[idx+1:]
		}
		if _, exists := keyToPath[stem]; !exists {
			keyToPath[stem] = rec.Path
		}
	}
	return keyToPath
}

// externalModules returns the sorted unique imports that do not resolve to
// any scanned file.
func externalModules(records []extractor.FileRecord) []string {
	keyToPath := buildKeyMap(records)

	seen := make(map[string]bool)
	for _, rec := range records {
		for _, imp := range rec.Structure.Imports {
			if _, ok := resolveImport(imp.Module, keyToPath); ok {
				continue
			}
			seen[imp.Module] = true
		}
	}

	out := make([]string, 0, len(seen))
	for mod := range seen {
		out = append(out, mod)
	}
	sort.Strings(out)
	return out
}

// resolveImport tries the import path and its progressively shortened
// prefixes against the known module keys ("pkg.mod.symbol" resolves to
// "pkg/mod.py").
func resolveImport(module string, keyToPath map[string]string) (string, bool) {
	module = strings.TrimPrefix(module, ".")
	for module != "" {
		if path, ok := keyToPath[module]; ok {
			return path, true
		}
		idx := strings.LastIndex(module, ".")
		if idx == -1 {
			// Last resort: match bare stems for slash-style imports.
			if slash := strings.LastIndex(module, "/"); slash != -1 {
				if path, ok := keyToPath[module[slash+1:]]; ok {
					return path, true
				}
			}
			return "", false
		}
		module = module[:idx]
	}
	return "", false
}

func pathExt(path string) string {
	if idx := strings.LastIndex(path, "."); idx != -1 && idx > strings.LastIndex(path, "/") {
		return path[idx:]
	}
	return ""
}
