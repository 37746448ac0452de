package types

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse reads a type written in key syntax:
//
//	type := ident | '(' [type {',' type}] ')' '->' type
//
// Whitespace between tokens is ignored.
func Parse(s string) (Type, error) {
	p := &parser{src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: trailing input %q in %q", ErrInvalid, p.src[p.pos:], s)
	}
	return t, nil
}

// MustParse is Parse for package-level literals.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrInvalid, fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *parser) parseType() (Type, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}
	if p.src[p.pos] != '(' {
		return p.parseBase()
	}
	p.pos++

	var domain []Type
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ')' {
		p.pos++
	} else {
		for {
			d, err := p.parseType()
			if err != nil {
				return nil, err
			}
			domain = append(domain, d)
			p.skipSpace()
			if p.pos >= len(p.src) {
				return nil, p.errorf("unclosed domain")
			}
			if p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.src[p.pos] == ')' {
				p.pos++
				break
			}
			return nil, p.errorf("expected ',' or ')'")
		}
	}

	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], "->") {
		return nil, p.errorf("expected '->'")
	}
	p.pos += 2
	rng, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return Func{Domain: domain, Range: rng}, nil
}

func (p *parser) parseBase() (Type, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '.') {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return nil, p.errorf("expected type name")
	}
	return Base{Name: p.src[start:p.pos]}, nil
}
