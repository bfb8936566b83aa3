// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package annotations

import (
	"context"
	"fmt"
)

// DefKind identifies the kind of a top-level definition in parsed source.
type DefKind int

const (
	// DefFunction is a function definition.
	DefFunction DefKind = iota

	// DefClass is a class definition.
	DefClass
)

// DefParam is one declared parameter of a parsed definition.
type DefParam struct {
	// Name is the parameter name.
	Name string

	// Variadic marks a variadic positional parameter (*args).
	Variadic bool

	// KeywordOnly marks a parameter that can only be passed by keyword.
	KeywordOnly bool
}

// Definition is one top-level definition exposed by the syntax-tree
// collaborator.
type Definition struct {
	// Kind is the definition kind.
	Kind DefKind

	// Name is the defined name.
	Name string

	// Params are the declared parameters in order. Catch-all keyword
	// parameters (**kwargs) are not included; they never contribute to
	// declared arity.
	Params []DefParam
}

// TreeParser parses source text into its top-level definitions.
//
// The pysrc package provides a tree-sitter backed implementation.
type TreeParser interface {
	// ParseDefinitions parses the source and returns its top-level
	// definitions in order.
	ParseDefinitions(ctx context.Context, source string) ([]Definition, error)
}

// NumParams counts the declared parameters of a callable without resolving
// any types.
//
// Description:
//
//	A lighter-weight companion to GetSignature: it only needs the syntax
//	tree, not annotations. The source must contain exactly one top-level
//	function definition. A variadic positional parameter or any
//	keyword-only parameter makes the arity statically indeterminate, which
//	is an absent result, not an error. Bound instance methods report one
//	fewer parameter to exclude the implicit receiver.
//
// Inputs:
//   - ctx: Context passed through to the tree parser.
//   - fn: The callable under inspection.
//   - parser: The syntax-tree collaborator.
//
// Outputs:
//   - int: The declared parameter count.
//   - bool: False when the source is unavailable or the arity is
//     statically indeterminate.
//   - error: ErrScriptClass when the source is a class definition;
//     ErrAnnotationStructure when it is not exactly one top-level function;
//     any parser failure.
func NumParams(ctx context.Context, fn Callable, parser TreeParser) (int, bool, error) {
	source, ok := fn.Source()
	if !ok {
		return 0, false, nil
	}

	defs, err := parser.ParseDefinitions(ctx, source)
	if err != nil {
		return 0, false, fmt.Errorf("function %q: %w", fn.Name(), err)
	}

	if len(defs) == 1 && defs[0].Kind == DefClass {
		return 0, false, fmt.Errorf("%w: %q", ErrScriptClass, defs[0].Name)
	}
	if len(defs) != 1 || defs[0].Kind != DefFunction {
		return 0, false, fmt.Errorf("%w: expected a single top-level function, found %d definitions",
			ErrAnnotationStructure, len(defs))
	}

	count := 0
	for _, p := range defs[0].Params {
		if p.Variadic || p.KeywordOnly {
			return 0, false, nil
		}
		count++
	}

	if fn.BoundMethod() {
		count--
	}
	return count, true, nil
}
