// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package typeexpr

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse parses one type expression against the restricted symbol environment.
//
// Description:
//
//	Parse runs a small recursive-descent parser over the fixed annotation
//	grammar: identifiers, dotted names (module.member), bracketed generic
//	application, comma lists, and parenthesized tuples. The whole input must
//	be consumed; trailing garbage is an error.
//
// Inputs:
//   - expr: The expression text, e.g. "Tuple[Tensor, int]" or "(Tensor, str)".
//
// Outputs:
//   - Value: The parsed value tree.
//   - error: ErrUnknownIdentifier for names outside the environment,
//     ErrMalformedExpression for anything that breaks the grammar. Both wrap
//     the offending text.
//
// Example:
//
//	v, err := typeexpr.Parse("Dict[str, torch.Tensor]")
//
// Thread Safety:
//
//	Parse is a pure function over its input plus the read-only environment;
//	it is safe for unsynchronized concurrent use.
func Parse(expr string) (Value, error) {
	toks, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, src: expr}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q after expression in %q",
			ErrMalformedExpression, p.peek().text, expr)
	}
	return v, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokComma
	tokDot
)

type token struct {
	kind tokenKind
	text string
}

// lex tokenizes a type expression. Whitespace separates tokens and is
// otherwise ignored.
func lex(s string) ([]token, error) {
	var toks []token
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '[':
			toks = append(toks, token{tokLBracket, "["})
			i++
		case r == ']':
			toks = append(toks, token{tokRBracket, "]"})
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case r == '.':
			toks = append(toks, token{tokDot, "."})
			i++
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			toks = append(toks, token{tokIdent, string(runes[start:i])})
		default:
			return nil, fmt.Errorf("%w: unexpected character %q in %q",
				ErrMalformedExpression, string(r), s)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
	src  string
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, fmt.Errorf("%w: expected %s, found %q in %q",
			ErrMalformedExpression, what, t.text, p.src)
	}
	return t, nil
}

// parseValue parses one value: a name with optional generic application, or
// a parenthesized comma list.
func (p *parser) parseValue() (Value, error) {
	switch p.peek().kind {
	case tokIdent:
		return p.parseName()
	case tokLParen:
		return p.parseParen()
	default:
		return nil, fmt.Errorf("%w: unexpected %q in %q",
			ErrMalformedExpression, p.peek().text, p.src)
	}
}

// parseName parses an identifier or dotted name, resolves it against the
// environment, and applies a bracketed argument list when present.
// Broadcasting list aliases are rewritten to List applications here, before
// the value ever reaches a resolver.
func (p *parser) parseName() (Value, error) {
	ident := p.next()
	name := ident.text

	if _, ok := broadcastAliases[name]; ok {
		if p.peek().kind != tokLBracket {
			return nil, fmt.Errorf("%w: %s requires a single element type",
				ErrMalformedExpression, name)
		}
		args, err := p.parseBracketArgs()
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s takes exactly one type argument, found %d",
				ErrMalformedExpression, name, len(args))
		}
		return Generic{Head: symList, Args: args}, nil
	}

	var sym Symbol
	var err error
	if p.peek().kind == tokDot {
		p.next()
		member, merr := p.expect(tokIdent, "identifier after '.'")
		if merr != nil {
			return nil, merr
		}
		sym, err = lookupDotted(name, member.text)
	} else {
		sym, err = lookupName(name)
	}
	if err != nil {
		return nil, err
	}

	if p.peek().kind != tokLBracket {
		return sym, nil
	}

	switch sym.Sym {
	case SymTuple, SymList, SymDict:
	default:
		return nil, fmt.Errorf("%w: %s does not accept type arguments",
			ErrMalformedExpression, sym.Name)
	}

	args, err := p.parseBracketArgs()
	if err != nil {
		return nil, err
	}
	return Generic{Head: sym, Args: args}, nil
}

// parseBracketArgs parses '[' value (',' value)* ','? ']' with at least one
// argument.
func (p *parser) parseBracketArgs() ([]Value, error) {
	if _, err := p.expect(tokLBracket, "'['"); err != nil {
		return nil, err
	}
	var args []Value
	for {
		if p.peek().kind == tokRBracket {
			if len(args) == 0 {
				return nil, fmt.Errorf("%w: empty type argument list in %q",
					ErrMalformedExpression, p.src)
			}
			p.next()
			return args, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		switch p.peek().kind {
		case tokComma:
			p.next()
		case tokRBracket:
			p.next()
			return args, nil
		default:
			return nil, fmt.Errorf("%w: expected ',' or ']', found %q in %q",
				ErrMalformedExpression, p.peek().text, p.src)
		}
	}
}

// parseParen parses a parenthesized expression. A bare parenthesized value
// without a trailing comma is just that value; anything else is a Sequence.
// "()" is the empty Sequence (a zero-argument list).
func (p *parser) parseParen() (Value, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	if p.peek().kind == tokRParen {
		p.next()
		return Sequence{}, nil
	}

	var elems []Value
	sawComma := false
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		if p.peek().kind == tokComma {
			p.next()
			sawComma = true
			// Trailing comma: (Tensor,) is a one-element sequence.
			if p.peek().kind == tokRParen {
				p.next()
				return Sequence{Elems: elems}, nil
			}
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	if len(elems) == 1 && !sawComma {
		return elems[0], nil
	}
	return Sequence{Elems: elems}, nil
}

// DisplayList renders a slice of values for diagnostics.
func DisplayList(vals []Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.Display()
	}
	return strings.Join(parts, ", ")
}
