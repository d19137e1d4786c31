package plan

import (
	"bytes"
	"os"
)

var mainAttribute = []byte("@main")

// containsMainAttribute reports whether the literal token "@main" occurs in
// source outside of // line comments and /* */ block comments. Block comments
// do not nest. An occurrence after an earlier comment-only occurrence still
// counts.
func containsMainAttribute(source []byte) bool {
	i := 0
	for i < len(source) {
		switch {
		case i+1 < len(source) && source[i] == '/' && source[i+1] == '/':
			nl := bytes.IndexByte(source[i:], '\n')
			if nl < 0 {
				return false
			}
			i += nl + 1
		case i+1 < len(source) && source[i] == '/' && source[i+1] == '*':
			end := bytes.Index(source[i+2:], []byte("*/"))
			if end < 0 {
				return false
			}
			i += 2 + end + 2
		case bytes.HasPrefix(source[i:], mainAttribute):
			return true
		default:
			i++
		}
	}
	return false
}

// shouldParseAsLibrary decides whether an executable Swift target compiles
// with -parse-as-library: exactly one source file which uses @main as its
// entry point. Multi-file targets rely on a main.swift and never get the
// flag. Read failures degrade to false; a missing file cannot declare @main.
func shouldParseAsLibrary(sources []string) bool {
	if len(sources) != 1 {
		return false
	}
	content, err := os.ReadFile(sources[0])
	if err != nil {
		return false
	}
	return containsMainAttribute(content)
}
