// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package magic

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Every character belongs to some token so that input can be rebuilt
// from the token stream.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Param", Pattern: `%[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Var", Pattern: `\$[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Meta", Pattern: `::`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "LBrack", Pattern: `\[`},
	{Name: "RBrack", Pattern: `\]`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_]+`},
	{Name: "Text", Pattern: `[^%$.:\[\]A-Za-z0-9_]+|[%$:]`},
})

var (
	symbols     = exprLexer.Symbols()
	tokenParam  = symbols["Param"]
	tokenVar    = symbols["Var"]
	tokenMeta   = symbols["Meta"]
	tokenDot    = symbols["Dot"]
	tokenLBrack = symbols["LBrack"]
	tokenRBrack = symbols["RBrack"]
	tokenIdent  = symbols["Ident"]
)

func tokenize(str string) ([]lexer.Token, error) {
	lex, err := exprLexer.LexString("", str)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	// drop trailing EOF
	if len(tokens) > 0 && tokens[len(tokens)-1].EOF() {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens, nil
}
