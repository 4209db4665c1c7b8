package hierarchy

import (
	"os"

	"github.com/apache/lucy-clownfish/internal/decl"
)

// Parser is the external collaborator spec.md places out of scope: "the
// lexer/parser for the declaration language". Anything satisfying this
// interface can drive the hierarchy build; DefaultParser wraps the small
// concrete parser in internal/decl.
type Parser interface {
	ParseFile(path string) (*decl.File, error)
}

// DefaultParser reads a file from disk and parses it with internal/decl.
type DefaultParser struct{}

func (DefaultParser) ParseFile(path string) (*decl.File, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decl.ParseString(path, string(text))
}
