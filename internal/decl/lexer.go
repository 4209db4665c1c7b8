package decl

import (
	"strings"
	"unicode"

	"github.com/apache/lucy-clownfish/internal/cferr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
}

// lexer tokenizes a ".cfh" declaration file body. It strips line (//) and
// block (/* */) comments, recognizing identifiers (including the
// dotted-name and *_t / size_t shapes Clownfish types use) and a fixed
// set of single-character punctuation.
type lexer struct {
	src      []rune
	pos      int
	line     int
	filename string
}

func newLexer(filename, src string) *lexer {
	return &lexer{src: []rune(src), line: 1, filename: filename}
}

func (lx *lexer) errorf(format string, a ...interface{}) error {
	return cferr.At(cferr.Input, lx.filename, lx.line, format, a...)
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

func (lx *lexer) peekRune() (rune, bool) {
	if lx.pos >= len(lx.src) {
		return 0, false
	}
	return lx.src[lx.pos], true
}

func (lx *lexer) next() (token, error) {
	for {
		r, ok := lx.peekRune()
		if !ok {
			return token{kind: tokEOF, line: lx.line}, nil
		}
		switch {
		case r == '\n':
			lx.line++
			lx.pos++
			continue
		case unicode.IsSpace(r):
			lx.pos++
			continue
		case r == '/' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '/':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		case r == '/' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '*':
			lx.pos += 2
			for {
				if lx.pos+1 >= len(lx.src) {
					return token{}, lx.errorf("unterminated block comment")
				}
				if lx.src[lx.pos] == '*' && lx.src[lx.pos+1] == '/' {
					lx.pos += 2
					break
				}
				if lx.src[lx.pos] == '\n' {
					lx.line++
				}
				lx.pos++
			}
			continue
		}
		break
	}

	r, ok := lx.peekRune()
	if !ok {
		return token{kind: tokEOF, line: lx.line}, nil
	}
	startLine := lx.line

	if isIdentStart(r) {
		start := lx.pos
		for {
			r, ok := lx.peekRune()
			if !ok || !isIdentCont(r) {
				break
			}
			lx.pos++
		}
		text := string(lx.src[start:lx.pos])
		text = strings.TrimSuffix(text, ".") // a trailing dot is never part of an identifier
		return token{kind: tokIdent, text: text, line: startLine}, nil
	}

	switch r {
	case ';', '{', '}', '(', ')', ',', '*', '[', ']':
		lx.pos++
		return token{kind: tokPunct, text: string(r), line: startLine}, nil
	default:
		return token{}, lx.errorf("unexpected character %q", r)
	}
}
