package extractor

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonExtractor parses Python files with a full tree-sitter grammar walk.
// Python is the only language that gets exact extraction: every top-level and
// nested class/function, parameters, decorators, docstrings, and line spans.
type pythonExtractor struct {
	language *sitter.Language
}

func newPythonExtractor() *pythonExtractor {
	return &pythonExtractor{
		language: sitter.NewLanguage(python.Language()),
	}
}

// Extract parses the source and walks the syntax tree. A file whose tree
// contains syntax errors is recorded with an empty structure and the
// ParseError flag; it never aborts the scan.
func (e *pythonExtractor) Extract(source []byte, contextLines int) CodeStructure {
	lines := strings.Split(string(source), "\n")
	cs := CodeStructure{LineCount: len(lines)}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		cs.ParseError = true
		return cs
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		cs.ParseError = true
		return cs
	}

	cs.Docstring = docstringOf(root, source)
	e.walk(root, source, lines, contextLines, &cs)
	return cs
}

// walk processes the named children of n, collecting imports, classes, and
// functions. Nested definitions are reached by recursing into bodies.
func (e *pythonExtractor) walk(n *sitter.Node, source []byte, lines []string, contextLines int, cs *CodeStructure) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "import_statement":
			e.collectImport(child, source, cs)
		case "import_from_statement":
			e.collectImportFrom(child, source, cs)
		case "class_definition":
			e.addClass(child, source, lines, contextLines, cs)
		case "function_definition":
			cs.Functions = append(cs.Functions, e.buildFunction(child, nil, source, lines, contextLines))
			if body := child.ChildByFieldName("body"); body != nil {
				e.walk(body, source, lines, contextLines, cs)
			}
		case "decorated_definition":
			e.addDecorated(child, source, lines, contextLines, cs)
		default:
			e.walk(child, source, lines, contextLines, cs)
		}
	}
}

// addDecorated unwraps a decorated_definition into its class or function.
func (e *pythonExtractor) addDecorated(n *sitter.Node, source []byte, lines []string, contextLines int, cs *CodeStructure) {
	def := n.ChildByFieldName("definition")
	if def == nil {
		return
	}

	switch def.Kind() {
	case "class_definition":
		e.addClass(def, source, lines, contextLines, cs)
	case "function_definition":
		fn := e.buildFunction(def, decoratorNames(n, source), source, lines, contextLines)
		cs.Functions = append(cs.Functions, fn)
		if body := def.ChildByFieldName("body"); body != nil {
			e.walk(body, source, lines, contextLines, cs)
		}
	}
}

// addClass extracts a class definition and its direct methods. Nested classes
// and definitions inside method bodies are collected by further walking.
func (e *pythonExtractor) addClass(n *sitter.Node, source []byte, lines []string, contextLines int, cs *CodeStructure) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	startLine := int(n.StartPosition().Row) + 1
	info := ClassInfo{
		Name:      nodeText(nameNode, source),
		StartLine: startLine,
		EndLine:   int(n.EndPosition().Row) + 1,
		Snippet:   snippetOf(lines, startLine, contextLines),
	}

	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			base := supers.NamedChild(uint(i))
			if base == nil {
				continue
			}
			switch base.Kind() {
			case "identifier", "attribute":
				info.Bases = append(info.Bases, nodeText(base, source))
			}
		}
	}

	body := n.ChildByFieldName("body")
	if body != nil {
		info.Docstring = docstringOf(body, source)

		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(uint(i))
			if child == nil {
				continue
			}

			switch child.Kind() {
			case "function_definition":
				info.Methods = append(info.Methods, e.buildFunction(child, nil, source, lines, contextLines))
				if mb := child.ChildByFieldName("body"); mb != nil {
					e.walk(mb, source, lines, contextLines, cs)
				}
			case "decorated_definition":
				def := child.ChildByFieldName("definition")
				if def == nil {
					continue
				}
				if def.Kind() == "function_definition" {
					fn := e.buildFunction(def, decoratorNames(child, source), source, lines, contextLines)
					info.Methods = append(info.Methods, fn)
					if mb := def.ChildByFieldName("body"); mb != nil {
						e.walk(mb, source, lines, contextLines, cs)
					}
				} else if def.Kind() == "class_definition" {
					e.addClass(def, source, lines, contextLines, cs)
				}
			case "class_definition":
				e.addClass(child, source, lines, contextLines, cs)
			default:
				e.walk(child, source, lines, contextLines, cs)
			}
		}
	}

	cs.Classes = append(cs.Classes, info)
}

// buildFunction extracts one function or method definition.
func (e *pythonExtractor) buildFunction(n *sitter.Node, decorators []string, source []byte, lines []string, contextLines int) FunctionInfo {
	startLine := int(n.StartPosition().Row) + 1
	fn := FunctionInfo{
		Decorators: decorators,
		StartLine:  startLine,
		EndLine:    int(n.EndPosition().Row) + 1,
		IsAsync:    strings.HasPrefix(nodeText(n, source), "async"),
		Snippet:    snippetOf(lines, startLine, contextLines),
	}

	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		fn.Name = nodeText(nameNode, source)
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = nodeText(ret, source)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Docstring = docstringOf(body, source)
	}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(uint(i))
			if p == nil {
				continue
			}
			if name := parameterName(p, source); name != "" {
				fn.Parameters = append(fn.Parameters, name)
			}
		}
	}

	return fn
}

// parameterName extracts the bare name from one parameter node.
func parameterName(n *sitter.Node, source []byte) string {
	switch n.Kind() {
	case "identifier":
		return nodeText(n, source)
	case "typed_parameter":
		if inner := n.NamedChild(0); inner != nil {
			return nodeText(inner, source)
		}
	case "default_parameter", "typed_default_parameter":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			return nodeText(nameNode, source)
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		return nodeText(n, source)
	case "keyword_separator", "positional_separator":
		return ""
	}
	return nodeText(n, source)
}

// decoratorNames collects decorator names from a decorated_definition,
// dropping call arguments: "@app.route('/x')" yields "app.route".
func decoratorNames(decorated *sitter.Node, source []byte) []string {
	var names []string
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(uint(i))
		if child == nil || child.Kind() != "decorator" {
			continue
		}
		name := strings.TrimPrefix(strings.TrimSpace(nodeText(child, source)), "@")
		if idx := strings.Index(name, "("); idx != -1 {
			name = name[:idx]
		}
		names = append(names, strings.TrimSpace(name))
	}
	return names
}

// collectImport handles "import a.b, c".
func (e *pythonExtractor) collectImport(n *sitter.Node, source []byte, cs *CodeStructure) {
	line := int(n.StartPosition().Row) + 1
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			cs.Imports = append(cs.Imports, ImportInfo{Module: nodeText(child, source), Line: line})
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				cs.Imports = append(cs.Imports, ImportInfo{Module: nodeText(name, source), Line: line})
			}
		}
	}
}

// collectImportFrom handles "from m import a, b" as "m.a", "m.b".
func (e *pythonExtractor) collectImportFrom(n *sitter.Node, source []byte, cs *CodeStructure) {
	line := int(n.StartPosition().Row) + 1

	module := n.ChildByFieldName("module_name")
	prefix := ""
	if module != nil {
		prefix = nodeText(module, source)
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(uint(i))
		if child == nil {
			continue
		}
		// Skip the module name itself; remaining named children are the
		// imported names.
		if module != nil && child.StartByte() == module.StartByte() {
			continue
		}

		var name string
		switch child.Kind() {
		case "dotted_name":
			name = nodeText(child, source)
		case "aliased_import":
			if inner := child.ChildByFieldName("name"); inner != nil {
				name = nodeText(inner, source)
			}
		case "wildcard_import":
			name = "*"
		default:
			continue
		}

		if prefix != "" {
			name = prefix + "." + name
		}
		cs.Imports = append(cs.Imports, ImportInfo{Module: name, Line: line})
	}
}

// docstringOf returns the cleaned docstring when the first named child of a
// module or block is a bare string expression.
func docstringOf(n *sitter.Node, source []byte) string {
	first := n.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	str := first.NamedChild(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}
	return cleanDocstring(nodeText(str, source))
}

// cleanDocstring strips quote delimiters and string prefixes.
func cleanDocstring(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return s
}

// nodeText extracts the source text covered by a node.
func nodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}
