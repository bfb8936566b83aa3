// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pysrc supplies the source-level collaborators of the annotations
// package, backed by tree-sitter.
//
// The annotations core consumes three things it does not produce itself:
// raw source text, a syntax tree exposing top-level definitions and their
// parameter flags, and a live signature carrying native annotation values.
// This package provides all three for Python source: Parser implements the
// annotations.TreeParser interface, and Function implements
// annotations.Callable for a single function's source.
package pysrc

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/AleutianAI/tensorscript/annotations"
)

// Limits on accepted source size.
const (
	// DefaultMaxSourceSize is the default upper bound on source text, in
	// bytes.
	DefaultMaxSourceSize int64 = 10 * 1024 * 1024
)

// Common errors for the pysrc package.
var (
	// ErrSourceTooLarge is returned when source text exceeds the
	// configured size limit.
	ErrSourceTooLarge = errors.New("source too large")

	// ErrInvalidSource is returned when source text is not valid UTF-8.
	ErrInvalidSource = errors.New("invalid source")

	// ErrNoFunction is returned when no function definition is found
	// where one is required.
	ErrNoFunction = errors.New("no function definition found")
)

// ParserOption configures a Parser instance.
type ParserOption func(*Parser)

// WithMaxSourceSize sets the maximum source size the parser will accept.
func WithMaxSourceSize(bytes int64) ParserOption {
	return func(p *Parser) {
		if bytes > 0 {
			p.maxSourceSize = bytes
		}
	}
}

// Parser parses Python source into its top-level definitions.
//
// Description:
//
//	Parser implements the annotations.TreeParser interface using
//	tree-sitter. Each call creates its own tree-sitter parser instance
//	internally, so a single Parser may be shared freely.
//
// Thread Safety:
//
//	Parser instances are safe for concurrent use.
type Parser struct {
	maxSourceSize int64
}

// NewParser creates a new Parser with the given options.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{maxSourceSize: DefaultMaxSourceSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseDefinitions parses source text and returns its top-level function
// and class definitions in order.
//
// Description:
//
//	The source is parsed with tree-sitter-python. Top-level
//	function_definition, class_definition, and decorated_definition nodes
//	become annotations.Definition values; other statements are not
//	definitions and are skipped. Parameters carry variadic and
//	keyword-only flags; a catch-all keyword parameter (**kwargs) never
//	contributes to declared arity and is omitted.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing;
//     tree-sitter parsing itself cannot be interrupted mid-parse.
//   - source: Raw Python source text. Must be valid UTF-8.
//
// Outputs:
//   - []annotations.Definition: The definitions in source order.
//   - error: ErrSourceTooLarge, ErrInvalidSource, or a context error.
func (p *Parser) ParseDefinitions(ctx context.Context, source string) ([]annotations.Definition, error) {
	start := time.Now()
	tree, content, err := p.parse(ctx, source)
	if err != nil {
		recordParseMetrics(ctx, "definitions", time.Since(start), false)
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	defs := make([]annotations.Definition, 0)
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "function_definition":
			defs = append(defs, definitionOf(child, content))
		case "class_definition":
			defs = append(defs, annotations.Definition{
				Kind: annotations.DefClass,
				Name: nodeName(child, content),
			})
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil {
				switch def.Type() {
				case "function_definition":
					defs = append(defs, definitionOf(def, content))
				case "class_definition":
					defs = append(defs, annotations.Definition{
						Kind: annotations.DefClass,
						Name: nodeName(def, content),
					})
				}
			}
		}
	}

	if err := ctx.Err(); err != nil {
		recordParseMetrics(ctx, "definitions", time.Since(start), false)
		return nil, fmt.Errorf("parse canceled after extraction: %w", err)
	}
	recordParseMetrics(ctx, "definitions", time.Since(start), true)
	return defs, nil
}

// parse validates and parses source, returning the tree and its byte
// content. The caller owns closing the tree.
func (p *Parser) parse(ctx context.Context, source string) (*sitter.Tree, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("parse canceled before start: %w", err)
	}
	if int64(len(source)) > p.maxSourceSize {
		return nil, nil, fmt.Errorf("%w: size %d exceeds limit %d",
			ErrSourceTooLarge, len(source), p.maxSourceSize)
	}
	if !utf8.ValidString(source) {
		return nil, nil, fmt.Errorf("%w: source is not valid UTF-8", ErrInvalidSource)
	}

	content := []byte(source)

	// New tree-sitter parser instance per call for thread safety.
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	return tree, content, nil
}

// definitionOf builds a Definition from a function_definition node.
func definitionOf(node *sitter.Node, content []byte) annotations.Definition {
	return annotations.Definition{
		Kind:   annotations.DefFunction,
		Name:   nodeName(node, content),
		Params: defParams(extractParams(node.ChildByFieldName("parameters"), content)),
	}
}

// nodeName returns the text of a definition's name field.
func nodeName(node *sitter.Node, content []byte) string {
	name := node.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return string(content[name.StartByte():name.EndByte()])
}

// paramInfo is the full per-parameter view extracted from a parameter list.
type paramInfo struct {
	name     string
	annText  string
	variadic bool
	kwOnly   bool
}

// defParams converts extracted parameters to the annotations model.
func defParams(params []paramInfo) []annotations.DefParam {
	out := make([]annotations.DefParam, len(params))
	for i, p := range params {
		out[i] = annotations.DefParam{
			Name:        p.name,
			Variadic:    p.variadic,
			KeywordOnly: p.kwOnly,
		}
	}
	return out
}

// extractParams walks a parameters node and collects each declared
// parameter with its annotation text and positional flags. Parameters after
// a bare '*' separator or a *args splat are keyword-only. A **kwargs
// catch-all is omitted entirely.
func extractParams(node *sitter.Node, content []byte) []paramInfo {
	if node == nil {
		return nil
	}

	var params []paramInfo
	kwOnly := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			params = append(params, paramInfo{
				name:   string(content[child.StartByte():child.EndByte()]),
				kwOnly: kwOnly,
			})
		case "typed_parameter":
			info := paramInfo{kwOnly: kwOnly}
			if t := child.ChildByFieldName("type"); t != nil {
				info.annText = string(content[t.StartByte():t.EndByte()])
			}
			for j := 0; j < int(child.ChildCount()); j++ {
				inner := child.Child(j)
				switch inner.Type() {
				case "identifier":
					info.name = string(content[inner.StartByte():inner.EndByte()])
				case "list_splat_pattern":
					info.name = splatName(inner, content)
					info.variadic = true
					kwOnly = true
				case "dictionary_splat_pattern":
					info.name = ""
				}
				if info.name != "" || info.variadic {
					break
				}
			}
			if info.name != "" {
				params = append(params, info)
			}
		case "default_parameter", "typed_default_parameter":
			info := paramInfo{kwOnly: kwOnly}
			if name := child.ChildByFieldName("name"); name != nil {
				info.name = string(content[name.StartByte():name.EndByte()])
			}
			if t := child.ChildByFieldName("type"); t != nil {
				info.annText = string(content[t.StartByte():t.EndByte()])
			}
			if info.name != "" {
				params = append(params, info)
			}
		case "list_splat_pattern":
			params = append(params, paramInfo{
				name:     splatName(child, content),
				variadic: true,
			})
			kwOnly = true
		case "keyword_separator":
			kwOnly = true
		case "dictionary_splat_pattern":
			// **kwargs never contributes to declared arity.
		}
	}
	return params
}

// splatName returns the identifier inside a *args splat pattern.
func splatName(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return string(content[child.StartByte():child.EndByte()])
		}
	}
	return ""
}

// Compile-time interface compliance check.
var _ annotations.TreeParser = (*Parser)(nil)
