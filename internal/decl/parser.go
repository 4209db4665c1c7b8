package decl

import (
	"github.com/apache/lucy-clownfish/internal/cferr"
)

var primitiveKeywords = map[string]bool{
	"void": true, "bool": true, "char": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"float": true, "double": true, "size_t": true,
}

var exposureKeywords = map[string]bool{"public": true, "private": true, "parcel": true}

// Parser parses one ".cfh" declaration file body into a File AST. It is
// the sole concrete implementation of the external "invoke the parser on
// each declaration file" collaborator spec.md describes; hierarchy.Parser
// is the interface a richer implementation could satisfy instead.
type Parser struct {
	lx   *lexer
	tok  token
	peek *token
}

// ParseString parses the textual body of a single declaration file.
// filename is used only for error messages.
func ParseString(filename, src string) (*File, error) {
	p := &Parser{lx: newLexer(filename, src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseFile()
}

func (p *Parser) advance() error {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return nil
	}
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *Parser) errorf(format string, a ...interface{}) error {
	return cferr.At(cferr.Input, p.lx.filename, p.tok.line, format, a...)
}

func (p *Parser) expectPunct(ch string) error {
	if p.tok.kind != tokPunct || p.tok.text != ch {
		return p.errorf("expected %q, found %q", ch, p.tok.text)
	}
	return p.advance()
}

func (p *Parser) expectIdent(word string) error {
	if p.tok.kind != tokIdent || p.tok.text != word {
		return p.errorf("expected %q, found %q", word, p.tok.text)
	}
	return p.advance()
}

func (p *Parser) atIdent(word string) bool {
	return p.tok.kind == tokIdent && p.tok.text == word
}

func (p *Parser) parseFile() (*File, error) {
	if err := p.expectIdent("parcel"); err != nil {
		return nil, err
	}
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected parcel name")
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	f := &File{ParcelName: name}
	for p.tok.kind != tokEOF {
		c, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		f.Classes = append(f.Classes, *c)
	}
	return f, nil
}

// classModifiers consumes any of "final"/"inert" appearing before the
// "class" keyword, in any order.
func (p *Parser) classModifiers() (final, inert bool, err error) {
	for {
		switch {
		case p.atIdent("final"):
			final = true
		case p.atIdent("inert"):
			inert = true
		default:
			return final, inert, nil
		}
		if err := p.advance(); err != nil {
			return false, false, err
		}
	}
}

func (p *Parser) parseClass() (*Class, error) {
	final, inert, err := p.classModifiers()
	if err != nil {
		return nil, err
	}
	if err := p.expectIdent("class"); err != nil {
		return nil, err
	}
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected class name")
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}

	var parent string
	if p.atIdent("extends") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokIdent {
			return nil, p.errorf("expected parent class name after 'extends'")
		}
		parent = p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	c := &Class{Name: name, ParentName: parent, Final: final, Inert: inert}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !(p.tok.kind == tokPunct && p.tok.text == "}") {
		if p.tok.kind == tokEOF {
			return nil, p.errorf("unexpected end of file inside class %s", name)
		}
		if err := p.parseMember(c); err != nil {
			return nil, err
		}
	}
	return c, p.advance() // consume '}'
}

// memberModifiers consumes exposure and boolean modifiers preceding a
// member declaration, in any order.
func (p *Parser) memberModifiers() (exposure string, inert, final, abstract, static bool, err error) {
	for {
		switch {
		case p.tok.kind == tokIdent && exposureKeywords[p.tok.text] && exposure == "":
			exposure = p.tok.text
		case p.atIdent("inert"):
			inert = true
		case p.atIdent("final"):
			final = true
		case p.atIdent("abstract"):
			abstract = true
		case p.atIdent("static"):
			static = true
		default:
			return exposure, inert, final, abstract, static, nil
		}
		if err := p.advance(); err != nil {
			return "", false, false, false, false, err
		}
	}
}

func (p *Parser) parseMember(c *Class) error {
	exposure, inertMod, final, abstract, static, err := p.memberModifiers()
	if err != nil {
		return err
	}
	typ, err := p.parseType()
	if err != nil {
		return err
	}
	if p.tok.kind != tokIdent {
		return p.errorf("expected member name")
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return err
	}

	if p.tok.kind == tokPunct && p.tok.text == "(" {
		if err := p.advance(); err != nil {
			return err
		}
		params, err := p.parseParamList()
		if err != nil {
			return err
		}
		if err := p.expectPunct(")"); err != nil {
			return err
		}
		if err := p.expectPunct(";"); err != nil {
			return err
		}
		isFunction := static || c.Inert
		if isFunction {
			c.Functions = append(c.Functions, Function{
				Name: name, Params: params, Return: typ, Exposure: exposure,
			})
		} else {
			c.Methods = append(c.Methods, Method{
				Name: name, Params: params, Return: typ, Exposure: exposure,
				Final: final, Abstract: abstract,
			})
		}
		return nil
	}

	if err := p.expectPunct(";"); err != nil {
		return err
	}
	v := Variable{Name: name, Type: typ, Exposure: exposure, Inert: inertMod || c.Inert}
	if v.Inert {
		c.InertVars = append(c.InertVars, v)
	} else {
		c.MemberVars = append(c.MemberVars, v)
	}
	return nil
}

func (p *Parser) parseParamList() ([]Param, error) {
	var params []Param
	if p.tok.kind == tokPunct && p.tok.text == ")" {
		return params, nil
	}
	for {
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokIdent {
			return nil, p.errorf("expected parameter name")
		}
		params = append(params, Param{Name: p.tok.text, Type: typ})
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokPunct && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return params, nil
}

func (p *Parser) parseType() (*Type, error) {
	t := &Type{}
	for {
		switch {
		case p.atIdent("nullable"):
			t.Nullable = true
		case p.atIdent("incremented"):
			t.Incremented = true
		case p.atIdent("decremented"):
			t.Decremented = true
		default:
			goto decoratorsDone
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
decoratorsDone:
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected type name")
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if primitiveKeywords[name] {
		t.Primitive = name
	} else {
		t.IsObject = true
		t.ClassName = name
	}
	if p.tok.kind == tokPunct && p.tok.text == "*" {
		if !t.IsObject {
			return nil, p.errorf("'*' decorator only applies to object types, not %q", name)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else if t.IsObject {
		return nil, p.errorf("object type %q must be written with a trailing '*'", name)
	}
	if p.tok.kind == tokPunct && p.tok.text == "[" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		t.Array = true
	}
	return t, nil
}
