// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package typeexpr parses textual type expressions against a restricted
// symbol environment.
//
// The expression grammar is fixed: identifiers and dotted names limited to
// the environment, bracketed generic application, comma lists, and
// parenthesized tuples. There is no general evaluator behind it; the
// namespace is closed by construction, so an identifier outside the
// environment fails with an explicit unknown-identifier error rather than
// silently resolving to anything else.
//
// Parsing produces Value trees, an un-resolved representation of what the
// annotation names. Mapping values onto the closed IR grammar is the
// annotations package's job.
package typeexpr

import "strings"

// SymbolKind identifies which environment entry a Symbol refers to.
type SymbolKind int

const (
	// SymTensor is the tensor type name (Tensor, torch.Tensor).
	SymTensor SymbolKind = iota

	// SymInt is the built-in int type name.
	SymInt

	// SymFloat is the built-in float type name.
	SymFloat

	// SymStr is the built-in str type name.
	SymStr

	// SymTuple is the unapplied Tuple generic head (Tuple, typing.Tuple).
	SymTuple

	// SymList is the unapplied List generic head.
	SymList

	// SymDict is the unapplied Dict generic head.
	SymDict
)

// Value is one node of a parsed type expression.
//
// Concrete forms: Absent (no annotation supplied), Symbol (a name resolved
// from the environment), Generic (bracketed application Head[Args...]), and
// Sequence (a parenthesized comma list, the argument-list form).
type Value interface {
	// Display renders the value for diagnostics, in source notation.
	Display() string

	value()
}

// AbsentValue is the absence marker: no annotation was supplied for a slot.
type AbsentValue struct{}

// Absent is the shared absence marker value.
var Absent Value = AbsentValue{}

// Display renders the absence marker.
func (AbsentValue) Display() string { return "None" }
func (AbsentValue) value()          {}

// Symbol is a name resolved from the restricted environment.
type Symbol struct {
	// Sym identifies the environment entry.
	Sym SymbolKind

	// Name is the canonical spelling, used for diagnostics.
	Name string
}

// Display renders the symbol's canonical name.
func (s Symbol) Display() string { return s.Name }
func (s Symbol) value()          {}

// Generic is a bracketed generic application, e.g. Tuple[int, Tensor].
//
// Broadcasting list aliases never appear here: they are rewritten to a List
// application during parsing.
type Generic struct {
	// Head is the generic constructor being applied.
	Head Symbol

	// Args are the type arguments in source order.
	Args []Value
}

// Display renders the application in source notation.
func (g Generic) Display() string {
	parts := make([]string, len(g.Args))
	for i, a := range g.Args {
		parts[i] = a.Display()
	}
	return g.Head.Name + "[" + strings.Join(parts, ", ") + "]"
}

func (g Generic) value() {}

// Sequence is a parenthesized comma list of values.
//
// An argument-list expression like (Tensor, int) parses to a Sequence; the
// splitter iterates its elements. A Sequence reaching the type resolver
// directly is outside the closed grammar and is rejected there.
type Sequence struct {
	Elems []Value
}

// Display renders the sequence in source notation.
func (s Sequence) Display() string {
	parts := make([]string, len(s.Elems))
	for i, e := range s.Elems {
		parts[i] = e.Display()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Sequence) value() {}
