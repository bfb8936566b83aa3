// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ir defines the closed type grammar consumed by the downstream
// compiler.
//
// The grammar is deliberately small and closed: a type node is either one of
// the four atoms (Tensor, int, float, str) or a composite built only from
// other valid nodes (Tuple, List, Dict). Nothing outside this enumeration is
// representable, and nothing outside it is accepted by the annotation
// resolver.
//
// Design principles:
//   - Nodes are immutable once constructed; never mutate a composite's
//     elements after building it.
//   - Nodes are built fresh per resolution and never shared across calls.
//   - No caching at this layer; callers own any memoization.
package ir

import (
	"fmt"
	"strings"
)

// Kind identifies which variant of the closed grammar a Type node is.
type Kind int

const (
	// KindTensor is the atomic tensor type. It carries no payload; shape
	// and dtype are not part of this grammar.
	KindTensor Kind = iota

	// KindInt is the built-in integer type.
	KindInt

	// KindFloat is the built-in floating-point type.
	KindFloat

	// KindString is the built-in text type.
	KindString

	// KindTuple is an ordered, fixed-arity sequence of element types.
	KindTuple

	// KindList is a homogeneous sequence with a single element type.
	KindList

	// KindDict is a mapping with one key type and one value type.
	KindDict
)

// String returns the variant name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindTensor:
		return "Tensor"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindTuple:
		return "Tuple"
	case KindList:
		return "List"
	case KindDict:
		return "Dict"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type is one node of the closed type grammar.
//
// Exactly seven concrete types implement it: TensorType, IntType, FloatType,
// StringType, TupleType, ListType, and DictType. The unexported marker method
// keeps the set closed to this package.
type Type interface {
	// Kind reports the grammar variant of this node.
	Kind() Kind

	// String renders the node in source notation, e.g. "Tuple[int, Tensor]".
	String() string

	closed()
}

// TensorType is the atomic tensor type.
type TensorType struct{}

// IntType is the built-in integer type.
type IntType struct{}

// FloatType is the built-in floating-point type.
type FloatType struct{}

// StringType is the built-in text type.
type StringType struct{}

// Singleton atoms. Atoms carry no payload, so every use shares these values.
var (
	// Tensor is the atomic tensor type node.
	Tensor Type = TensorType{}

	// Int is the integer type node.
	Int Type = IntType{}

	// Float is the floating-point type node.
	Float Type = FloatType{}

	// String is the text type node.
	String Type = StringType{}
)

func (TensorType) Kind() Kind     { return KindTensor }
func (TensorType) String() string { return "Tensor" }
func (TensorType) closed()        {}

func (IntType) Kind() Kind     { return KindInt }
func (IntType) String() string { return "int" }
func (IntType) closed()        {}

func (FloatType) Kind() Kind     { return KindFloat }
func (FloatType) String() string { return "float" }
func (FloatType) closed()        {}

func (StringType) Kind() Kind     { return KindString }
func (StringType) String() string { return "str" }
func (StringType) closed()        {}

// TupleType is an ordered sequence of element types with exact arity.
//
// Element order and count are preserved exactly as written in the source
// annotation; the resolver never flattens or deduplicates.
type TupleType struct {
	Elems []Type
}

// NewTuple builds a TupleType from the given elements in order.
func NewTuple(elems ...Type) *TupleType {
	return &TupleType{Elems: elems}
}

// Kind reports KindTuple.
func (t *TupleType) Kind() Kind { return KindTuple }

// String renders the tuple in source notation.
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "Tuple[" + strings.Join(parts, ", ") + "]"
}

func (t *TupleType) closed() {}

// ListType is a homogeneous sequence type with one element type.
type ListType struct {
	Elem Type
}

// NewList builds a ListType wrapping the given element type.
func NewList(elem Type) *ListType {
	return &ListType{Elem: elem}
}

// Kind reports KindList.
func (t *ListType) Kind() Kind { return KindList }

// String renders the list in source notation.
func (t *ListType) String() string {
	return "List[" + t.Elem.String() + "]"
}

func (t *ListType) closed() {}

// DictType is a mapping type with one key type and one value type.
type DictType struct {
	Key   Type
	Value Type
}

// NewDict builds a DictType with the given key and value types.
func NewDict(key, value Type) *DictType {
	return &DictType{Key: key, Value: value}
}

// Kind reports KindDict.
func (t *DictType) Kind() Kind { return KindDict }

// String renders the dict in source notation.
func (t *DictType) String() string {
	return "Dict[" + t.Key.String() + ", " + t.Value.String() + "]"
}

func (t *DictType) closed() {}

// Equal reports whether two type nodes are structurally identical.
//
// Atoms compare by kind; composites compare element-wise in order. A nil
// argument is never equal to a non-nil one.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case *TupleType:
		bt := b.(*TupleType)
		if len(at.Elems) != len(bt.Elems) {
			return false
		}
		for i := range at.Elems {
			if !Equal(at.Elems[i], bt.Elems[i]) {
				return false
			}
		}
		return true
	case *ListType:
		return Equal(at.Elem, b.(*ListType).Elem)
	case *DictType:
		bt := b.(*DictType)
		return Equal(at.Key, bt.Key) && Equal(at.Value, bt.Value)
	default:
		// Atoms carry no payload.
		return true
	}
}
