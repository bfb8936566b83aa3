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

import "errors"

// Common errors for the annotations package.
//
// All of these are unrecoverable for the function being processed and
// propagate to the caller of GetSignature or NumParams. A malformed
// annotation is never silently replaced with a default type. Genuine absence
// of an annotation is not an error; it is reported as a false ok result.
var (
	// ErrUnknownAnnotation is returned when an expression resolves to a
	// value outside the closed type grammar.
	ErrUnknownAnnotation = errors.New("unknown type annotation")

	// ErrAnnotationSyntax is returned for a malformed comment declaration:
	// a missing arrow, an unparseable sub-expression, or an unknown
	// identifier.
	ErrAnnotationSyntax = errors.New("syntax error in type annotation")

	// ErrAnnotationStructure is returned when the physical layout of a
	// multi-line comment declaration is invalid, or when a source unit is
	// not exactly one top-level function definition.
	ErrAnnotationStructure = errors.New("malformed type annotation structure")

	// ErrScriptClass is returned when a class definition is given where a
	// function is required.
	ErrScriptClass = errors.New("cannot script a class object")
)
