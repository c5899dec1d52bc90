package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for pythonExtractor:
// - Module docstring, imports (plain, from, aliased, wildcard)
// - Classes with bases, docstrings, methods, line spans
// - Functions with params, defaults, return annotations, async, decorators
// - Nested definitions are collected
// - Syntax errors flag the file without aborting
// - Snippets captured only when context lines are requested

const pythonSample = `"""Utility module."""
import os
import sys as system
from collections import OrderedDict
from typing import *


class Shape(Base, abc.ABC):
    """A shape."""

    def area(self) -> float:
        """Compute area."""
        return 0.0

    @staticmethod
    def origin():
        return (0, 0)


@functools.lru_cache(maxsize=8)
async def fetch(url, timeout=30, *args, **kwargs) -> str:
    """Fetch a URL."""

    def helper(x):
        return x

    return ""
`

func TestPythonExtractor_Structure(t *testing.T) {
	t.Parallel()

	cs := newPythonExtractor().Extract([]byte(pythonSample), 0)
	require.False(t, cs.ParseError)

	assert.Equal(t, "Utility module.", cs.Docstring)

	var modules []string
	for _, imp := range cs.Imports {
		modules = append(modules, imp.Module)
	}
	assert.Equal(t, []string{"os", "sys", "collections.OrderedDict", "typing.*"}, modules)

	require.Len(t, cs.Classes, 1)
	cls := cs.Classes[0]
	assert.Equal(t, "Shape", cls.Name)
	assert.Equal(t, []string{"Base", "abc.ABC"}, cls.Bases)
	assert.Equal(t, "A shape.", cls.Docstring)
	assert.Equal(t, 8, cls.StartLine)
	assert.GreaterOrEqual(t, cls.EndLine, cls.StartLine)

	require.Len(t, cls.Methods, 2)
	assert.Equal(t, "area", cls.Methods[0].Name)
	assert.Equal(t, "float", cls.Methods[0].ReturnType)
	assert.Equal(t, "Compute area.", cls.Methods[0].Docstring)
	assert.Equal(t, []string{"self"}, cls.Methods[0].Parameters)

	assert.Equal(t, "origin", cls.Methods[1].Name)
	assert.Equal(t, []string{"staticmethod"}, cls.Methods[1].Decorators)
}

func TestPythonExtractor_FunctionDetails(t *testing.T) {
	t.Parallel()

	cs := newPythonExtractor().Extract([]byte(pythonSample), 0)
	require.False(t, cs.ParseError)

	// fetch plus its nested helper
	require.Len(t, cs.Functions, 2)

	fetch := cs.Functions[0]
	assert.Equal(t, "fetch", fetch.Name)
	assert.True(t, fetch.IsAsync)
	assert.Equal(t, "str", fetch.ReturnType)
	assert.Equal(t, "Fetch a URL.", fetch.Docstring)
	assert.Equal(t, []string{"functools.lru_cache"}, fetch.Decorators)
	assert.Equal(t, []string{"url", "timeout", "*args", "**kwargs"}, fetch.Parameters)

	helper := cs.Functions[1]
	assert.Equal(t, "helper", helper.Name)
	assert.False(t, helper.IsAsync)
}

func TestPythonExtractor_SyntaxError(t *testing.T) {
	t.Parallel()

	// Test: broken source yields an empty flagged structure
	cs := newPythonExtractor().Extract([]byte("def broken(:\n    pass\n"), 0)

	assert.True(t, cs.ParseError)
	assert.Empty(t, cs.Classes)
	assert.Empty(t, cs.Functions)
	assert.Empty(t, cs.Imports)
}

func TestPythonExtractor_LineRangesWithinFile(t *testing.T) {
	t.Parallel()

	cs := newPythonExtractor().Extract([]byte(pythonSample), 0)
	require.False(t, cs.ParseError)

	check := func(start, end int) {
		assert.GreaterOrEqual(t, start, 1)
		assert.LessOrEqual(t, start, end)
		assert.LessOrEqual(t, end, cs.LineCount)
	}
	for _, cls := range cs.Classes {
		check(cls.StartLine, cls.EndLine)
		for _, m := range cls.Methods {
			check(m.StartLine, m.EndLine)
		}
	}
	for _, fn := range cs.Functions {
		check(fn.StartLine, fn.EndLine)
	}
}

func TestPythonExtractor_Snippets(t *testing.T) {
	t.Parallel()

	cs := newPythonExtractor().Extract([]byte(pythonSample), 2)
	require.False(t, cs.ParseError)
	require.Len(t, cs.Classes, 1)

	assert.Equal(t, "class Shape(Base, abc.ABC):\n    \"\"\"A shape.\"\"\"", cs.Classes[0].Snippet)

	noSnippets := newPythonExtractor().Extract([]byte(pythonSample), 0)
	assert.Empty(t, noSnippets.Classes[0].Snippet)
}

func TestCleanDocstring(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{`"""plain"""`, "plain"},
		{`'''single'''`, "single"},
		{`"short"`, "short"},
		{`r"""raw"""`, "raw"},
		{`f'''fmt'''`, "fmt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanDocstring(tt.raw), tt.raw)
	}
}
