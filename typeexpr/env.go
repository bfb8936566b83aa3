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
	"errors"
	"fmt"
)

// Errors reported while parsing type expressions.
var (
	// ErrUnknownIdentifier is returned when an identifier is not in the
	// restricted symbol environment.
	ErrUnknownIdentifier = errors.New("unknown identifier in type expression")

	// ErrMalformedExpression is returned when the expression does not
	// follow the fixed annotation grammar.
	ErrMalformedExpression = errors.New("malformed type expression")
)

// Canonical symbols resolvable from the environment.
var (
	symTensor = Symbol{Sym: SymTensor, Name: "Tensor"}
	symInt    = Symbol{Sym: SymInt, Name: "int"}
	symFloat  = Symbol{Sym: SymFloat, Name: "float"}
	symStr    = Symbol{Sym: SymStr, Name: "str"}
	symTuple  = Symbol{Sym: SymTuple, Name: "Tuple"}
	symList   = Symbol{Sym: SymList, Name: "List"}
	symDict   = Symbol{Sym: SymDict, Name: "Dict"}
)

// names is the flat identifier namespace usable in a type expression.
// Initialized once at package load and read-only thereafter, so concurrent
// unsynchronized reads are safe.
var names = map[string]Symbol{
	"Tensor": symTensor,
	"Tuple":  symTuple,
	"List":   symList,
	"Dict":   symDict,
	"int":    symInt,
	"float":  symFloat,
	"str":    symStr,
}

// modules maps the module names usable in dotted lookups to their members.
// Lookup depth is exactly two: module.member. Anything deeper or outside
// these tables fails with ErrUnknownIdentifier.
var modules = map[string]map[string]Symbol{
	"torch":  {"Tensor": symTensor},
	"typing": {"Tuple": symTuple},
}

// broadcastAliases maps broadcasting list alias names to their fixed
// broadcast arity. An alias is a pre-expansion macro: BroadcastingListN[T]
// rewrites to List[T] before the value reaches the resolver. The arity is
// recorded for diagnostics only; the rewrite is the same for every N.
var broadcastAliases = map[string]int{
	"BroadcastingList1": 1,
	"BroadcastingList2": 2,
	"BroadcastingList3": 3,
}

// lookupName resolves a bare identifier against the environment.
func lookupName(name string) (Symbol, error) {
	if sym, ok := names[name]; ok {
		return sym, nil
	}
	return Symbol{}, fmt.Errorf("%w: %q", ErrUnknownIdentifier, name)
}

// lookupDotted resolves a module.member reference against the environment.
func lookupDotted(module, member string) (Symbol, error) {
	members, ok := modules[module]
	if !ok {
		return Symbol{}, fmt.Errorf("%w: %q", ErrUnknownIdentifier, module)
	}
	sym, ok := members[member]
	if !ok {
		return Symbol{}, fmt.Errorf("%w: module %q has no member %q",
			ErrUnknownIdentifier, module, member)
	}
	return sym, nil
}
