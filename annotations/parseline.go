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
	"fmt"
	"strings"

	"github.com/AleutianAI/tensorscript/ir"
	"github.com/AleutianAI/tensorscript/typeexpr"
)

// arrowToken separates the argument list from the return type in a
// declaration.
const arrowToken = "->"

// Signature is a fully resolved annotated signature: the ordered argument
// types plus the return type. Built once per function and handed to the
// caller; this package does not cache it.
type Signature struct {
	// Args are the argument types in declaration order.
	Args []ir.Type

	// Ret is the return type.
	Ret ir.Type
}

// String renders the signature in declaration notation, e.g.
// "(Tensor, int) -> Tensor".
func (s *Signature) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ") " + arrowToken + " " + s.Ret.String()
}

// ParseTypeLine splits a logical type declaration and resolves both sides.
//
// Description:
//
//	The declaration is split at the first arrow token: the text between the
//	"# type:" marker and the arrow is the argument-list expression, the text
//	after is the return-type expression. Each side is parsed against the
//	restricted symbol environment. A non-sequence argument result is wrapped
//	as a one-element list, supporting a single argument type written without
//	enclosing parentheses. Every resulting raw value goes through AnnToType.
//
// Inputs:
//   - line: The logical declaration, e.g. "# type: (Tensor, int) -> Tensor".
//
// Outputs:
//   - *Signature: The resolved argument and return types.
//   - error: ErrAnnotationSyntax when the arrow is missing or a
//     sub-expression fails to parse; ErrUnknownAnnotation when a parsed
//     value is outside the closed grammar.
//
// Example:
//
//	sig, err := annotations.ParseTypeLine("# type: (Tensor, Tensor) -> Tensor")
func ParseTypeLine(line string) (*Signature, error) {
	arrow := strings.Index(line, arrowToken)
	if arrow < 0 {
		return nil, fmt.Errorf("%w: could not find %q in %q",
			ErrAnnotationSyntax, arrowToken, line)
	}

	argText := line[:arrow]
	if idx := strings.Index(argText, typeComment); idx >= 0 {
		argText = argText[idx+len(typeComment):]
	}
	argText = strings.TrimSpace(argText)
	retText := strings.TrimSpace(line[arrow+len(arrowToken):])

	argVal, err := typeexpr.Parse(argText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse the argument list of a type annotation: %w",
			ErrAnnotationSyntax, err)
	}

	retVal, err := typeexpr.Parse(retText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse the return type of a type annotation: %w",
			ErrAnnotationSyntax, err)
	}

	// A lone argument type may be written without parentheses or commas.
	rawArgs, ok := argVal.(typeexpr.Sequence)
	if !ok {
		rawArgs = typeexpr.Sequence{Elems: []typeexpr.Value{argVal}}
	}

	args := make([]ir.Type, len(rawArgs.Elems))
	for i, raw := range rawArgs.Elems {
		t, err := AnnToType(raw)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}

	ret, err := AnnToType(retVal)
	if err != nil {
		return nil, err
	}

	return &Signature{Args: args, Ret: ret}, nil
}
