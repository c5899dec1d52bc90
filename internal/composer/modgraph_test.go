package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repowhisperer/repowhisperer/internal/extractor"
)

// Test Plan for module graph:
// - Intra-project imports resolve by dotted path, bare stem, and symbol-
//   bearing prefixes ("pkg.mod.symbol")
// - Self-edges and unresolved imports produce no edges
// - Edge lines are sorted for deterministic prompts
// - externalModules lists sorted unique unresolved imports

func graphRecords() []extractor.FileRecord {
	return []extractor.FileRecord{
		{
			Path: "app/main.py",
			Structure: extractor.CodeStructure{Imports: []extractor.ImportInfo{
				{Module: "app.models.User"}, // prefix resolution
				{Module: "utils"},           // bare stem
				{Module: "requests"},        // external
			}},
		},
		{
			Path: "app/models.py",
			Structure: extractor.CodeStructure{Imports: []extractor.ImportInfo{
				{Module: "app.models"}, // self import, dropped
				{Module: "sqlalchemy"}, // external
			}},
		},
		{Path: "utils.py"},
	}
}

func TestModuleEdges(t *testing.T) {
	t.Parallel()

	edges := moduleEdges(graphRecords())

	assert.Equal(t, []string{
		"app/main.py -> app/models.py",
		"app/main.py -> utils.py",
	}, edges)
}

func TestExternalModules(t *testing.T) {
	t.Parallel()

	external := externalModules(graphRecords())
	assert.Equal(t, []string{"requests", "sqlalchemy"}, external)
}

func TestResolveImport(t *testing.T) {
	t.Parallel()

	keys := buildKeyMap([]extractor.FileRecord{
		{Path: "pkg/mod.py"},
		{Path: "lib.js"},
	})

	tests := []struct {
		module string
		want   string
		ok     bool
	}{
		{"pkg.mod", "pkg/mod.py", true},
		{"pkg.mod.Symbol", "pkg/mod.py", true},
		{"mod", "pkg/mod.py", true},
		{"lib", "lib.js", true},
		{"./lib", "lib.js", true},
		{"numpy", "", false},
	}
	for _, tt := range tests {
		got, ok := resolveImport(tt.module, keys)
		assert.Equal(t, tt.ok, ok, tt.module)
		assert.Equal(t, tt.want, got, tt.module)
	}
}
