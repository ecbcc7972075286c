// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package magic

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

type Origin int

const (
	// OriginParameter expressions ("%name") read preset parameters.
	OriginParameter Origin = iota
	// OriginVariable expressions ("$name") read block variables.
	OriginVariable
)

func (o Origin) String() string {
	if o == OriginVariable {
		return "variable"
	}
	return "parameter"
}

func (o Origin) prefix() string {
	if o == OriginVariable {
		return "$"
	}
	return "%"
}

type Expression struct {
	Origin   Origin
	Property string
	// SubKey is a literal nested key; Dynamic is set instead when the key
	// is computed by another expression.
	SubKey  string
	Dynamic *Expression
	MetaKey string
	Raw     string
}

func (e *Expression) HasSubKey() bool { return e.SubKey != "" || e.Dynamic != nil }

// Binding identifies the iteration binding of the expression's property.
func (e *Expression) Binding() string { return e.Origin.prefix() + e.Property }

func (e *Expression) String() string { return e.Raw }

// Segment is a part of a string: literal text or one expression.
type Segment struct {
	Text string
	Expr *Expression
}

// Parse parses str as exactly one expression.
func Parse(str string) (*Expression, error) {
	segments, err := Segments(str)
	if err != nil {
		return nil, err
	}
	if len(segments) != 1 || segments[0].Expr == nil {
		return nil, fmt.Errorf("Expected '%s' to be a magic expression (e.g. %%name, %%name.key, %%name::keys)", str)
	}
	return segments[0].Expr, nil
}

// IsExpression reports whether str is exactly one expression.
func IsExpression(str string) bool {
	_, err := Parse(str)
	return err == nil
}

// Contains reports whether str embeds at least one expression.
func Contains(str string) bool {
	if !strings.ContainsAny(str, "%$") {
		return false
	}
	segments, err := Segments(str)
	if err != nil {
		return false
	}
	for _, seg := range segments {
		if seg.Expr != nil {
			return true
		}
	}
	return false
}

// Segments splits str into literal text and expressions.
func Segments(str string) ([]Segment, error) {
	tokens, err := tokenize(str)
	if err != nil {
		return nil, fmt.Errorf("Tokenizing '%s': %s", str, err)
	}

	p := &exprParser{tokens: tokens, input: str}
	var segments []Segment
	var text strings.Builder

	for !p.done() {
		if p.atOrigin() {
			expr, err := p.expression(0)
			if err != nil {
				return nil, err
			}
			if text.Len() > 0 {
				segments = append(segments, Segment{Text: text.String()})
				text.Reset()
			}
			segments = append(segments, Segment{Expr: expr})
			continue
		}
		text.WriteString(p.next().Value)
	}
	if text.Len() > 0 {
		segments = append(segments, Segment{Text: text.String()})
	}
	return segments, nil
}

type exprParser struct {
	tokens []lexer.Token
	pos    int
	input  string
}

func (p *exprParser) done() bool { return p.pos >= len(p.tokens) }

func (p *exprParser) peek(offset int) (lexer.Token, bool) {
	if p.pos+offset >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[p.pos+offset], true
}

func (p *exprParser) is(offset int, typ lexer.TokenType) bool {
	tok, ok := p.peek(offset)
	return ok && tok.Type == typ
}

func (p *exprParser) atOrigin() bool {
	return p.is(0, tokenParam) || p.is(0, tokenVar)
}

func (p *exprParser) next() lexer.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// expression parses origin ('.' (ident | '[' expression ']'))? ('::' ident)?
// Dynamic keys nest at most one level deep.
func (p *exprParser) expression(depth int) (*Expression, error) {
	var raw strings.Builder

	origin := p.next()
	raw.WriteString(origin.Value)

	expr := &Expression{Property: origin.Value[1:]}
	if origin.Type == tokenVar {
		expr.Origin = OriginVariable
	}

	if p.is(0, tokenDot) {
		switch {
		case p.is(1, tokenIdent):
			raw.WriteString(p.next().Value)
			key := p.next()
			raw.WriteString(key.Value)
			expr.SubKey = key.Value

		case p.is(1, tokenLBrack):
			if depth > 0 {
				return nil, fmt.Errorf("Expected at most one level of dynamic keys in '%s'", p.input)
			}
			raw.WriteString(p.next().Value)
			raw.WriteString(p.next().Value)
			if !p.atOrigin() {
				return nil, fmt.Errorf("Expected magic expression after '[' in '%s'", p.input)
			}
			dynamic, err := p.expression(depth + 1)
			if err != nil {
				return nil, err
			}
			if !p.is(0, tokenRBrack) {
				return nil, fmt.Errorf("Expected closing ']' in '%s'", p.input)
			}
			raw.WriteString(dynamic.Raw)
			raw.WriteString(p.next().Value)
			expr.Dynamic = dynamic
		}
	}

	if p.is(0, tokenMeta) && p.is(1, tokenIdent) {
		raw.WriteString(p.next().Value)
		meta := p.next()
		raw.WriteString(meta.Value)
		if !isMetaKey(meta.Value) {
			return nil, fmt.Errorf("Unknown magic expression metadata key '%s' in '%s' (known keys: %s)",
				meta.Value, p.input, strings.Join(MetaNames, ", "))
		}
		expr.MetaKey = meta.Value
	}

	expr.Raw = raw.String()
	return expr, nil
}
