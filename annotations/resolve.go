// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package annotations translates function type annotations into the closed
// type grammar of the ir package.
//
// Two annotation syntaxes are supported: native parameter and return
// annotations exposed by a callable's live signature, and the legacy
// "# type: (...) -> ..." comment convention, including declarations split
// across several physical comment lines. Both paths feed the same resolver,
// AnnToType, which accepts only the closed set of type expressions and
// rejects everything else.
//
// The package is a pure library boundary: no network, file, or persisted
// state. Source text, syntax trees, and live signatures come from
// collaborators behind the Callable and TreeParser interfaces.
package annotations

import (
	"fmt"

	"github.com/AleutianAI/tensorscript/ir"
	"github.com/AleutianAI/tensorscript/typeexpr"
)

// AnnToType maps one raw type expression onto the closed type grammar.
//
// Description:
//
//	Classification is by first match: the absence marker and the tensor type
//	name both map to Tensor (an unannotated slot defaults to tensor-typed in
//	this ecosystem, not to "any"); tuple-, list-, and dict-shaped generic
//	applications recurse into their type arguments preserving order and
//	arity exactly; the float, int, and str built-ins map to their atoms.
//	Anything else fails with ErrUnknownAnnotation naming the offending
//	expression.
//
// Inputs:
//   - v: The raw expression. A nil value is treated as the absence marker.
//
// Outputs:
//   - ir.Type: The resolved node, freshly built for composites.
//   - error: ErrUnknownAnnotation when v is outside the closed grammar.
//
// Thread Safety:
//
//	Pure function; safe for unsynchronized concurrent use.
func AnnToType(v typeexpr.Value) (ir.Type, error) {
	if v == nil {
		return ir.Tensor, nil
	}
	switch val := v.(type) {
	case typeexpr.AbsentValue:
		return ir.Tensor, nil
	case typeexpr.Symbol:
		switch val.Sym {
		case typeexpr.SymTensor:
			return ir.Tensor, nil
		case typeexpr.SymFloat:
			return ir.Float, nil
		case typeexpr.SymInt:
			return ir.Int, nil
		case typeexpr.SymStr:
			return ir.String, nil
		}
	case typeexpr.Generic:
		switch val.Head.Sym {
		case typeexpr.SymTuple:
			elems := make([]ir.Type, len(val.Args))
			for i, arg := range val.Args {
				elem, err := AnnToType(arg)
				if err != nil {
					return nil, err
				}
				elems[i] = elem
			}
			return ir.NewTuple(elems...), nil
		case typeexpr.SymList:
			if len(val.Args) != 1 {
				break
			}
			elem, err := AnnToType(val.Args[0])
			if err != nil {
				return nil, err
			}
			return ir.NewList(elem), nil
		case typeexpr.SymDict:
			if len(val.Args) != 2 {
				break
			}
			key, err := AnnToType(val.Args[0])
			if err != nil {
				return nil, err
			}
			value, err := AnnToType(val.Args[1])
			if err != nil {
				return nil, err
			}
			return ir.NewDict(key, value), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAnnotation, v.Display())
}
