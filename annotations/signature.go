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
	"log/slog"
	"time"

	"github.com/AleutianAI/tensorscript/ir"
	"github.com/AleutianAI/tensorscript/typeexpr"
)

// Slot is one annotation slot of a live signature: a parameter or the
// return position.
type Slot struct {
	// Name is the parameter name; empty for the return slot.
	Name string

	// Ann is the slot's raw annotation value, nil when the slot is
	// unspecified.
	Ann typeexpr.Value
}

// LiveSignature is the live-signature collaborator view of a callable: the
// ordered parameter slots plus the return slot, each either annotated or
// carrying the unspecified marker (a nil Ann).
type LiveSignature struct {
	// Params are the parameter slots in declaration order.
	Params []Slot

	// Return is the return slot.
	Return Slot
}

// annotated reports whether any slot carries an annotation.
func (ls LiveSignature) annotated() bool {
	if ls.Return.Ann != nil {
		return true
	}
	for _, p := range ls.Params {
		if p.Ann != nil {
			return true
		}
	}
	return false
}

// Callable is the collaborator view of the function being processed.
//
// Implementations supply the raw source text and, when available, a live
// signature exposing native annotations. The pysrc package provides a
// tree-sitter backed implementation; tests may supply their own.
type Callable interface {
	// Source returns the callable's raw source text. The second result is
	// false when the source cannot be retrieved, e.g. for a built-in or
	// dynamically generated function.
	Source() (string, bool)

	// LiveSignature returns the callable's live signature. The second
	// result is false when no signature object is available.
	LiveSignature() (LiveSignature, bool)

	// BoundMethod reports whether the callable is a bound instance method
	// with an implicit receiver.
	BoundMethod() bool

	// Name returns the callable's name for diagnostics.
	Name() string
}

// GetSignature resolves the annotated signature of a callable.
//
// Description:
//
//	Native annotations are tried first: if the live signature carries any
//	annotation, every slot is resolved through AnnToType, substituting the
//	absence marker for unspecified slots, and any comment annotation in the
//	source is ignored. Otherwise the source is retrieved and scanned for a
//	"# type:" comment declaration, which is reassembled, split, and
//	evaluated. A callable with no annotation of either kind, or whose
//	source is unavailable, yields an absent result rather than an error.
//
// Inputs:
//   - ctx: Context for tracing. Resolution itself is synchronous and is not
//     interrupted mid-flight.
//   - fn: The callable under inspection.
//
// Outputs:
//   - *Signature: The resolved signature, nil when absent.
//   - bool: False when the callable is unannotated.
//   - error: Any resolver, syntax, or structural error. Errors are hard
//     failures for this function; they are never downgraded to absence.
//
// Thread Safety:
//
//	Safe for concurrent use across independent callables; no cross-call
//	state is threaded.
func GetSignature(ctx context.Context, fn Callable) (*Signature, bool, error) {
	ctx, span := startSignatureSpan(ctx, fn.Name())
	defer span.End()
	start := time.Now()

	if ls, ok := fn.LiveSignature(); ok && ls.annotated() {
		sig, err := nativeSignature(ls)
		recordSignatureMetrics(ctx, pathNative, time.Since(start), err == nil)
		if err != nil {
			return nil, false, fmt.Errorf("function %q: %w", fn.Name(), err)
		}
		setSignaturePath(span, pathNative)
		return sig, true, nil
	}

	source, ok := fn.Source()
	if !ok {
		slog.Debug("source unavailable, treating as unannotated",
			slog.String("function", fn.Name()))
		setSignaturePath(span, pathAbsent)
		recordSignatureMetrics(ctx, pathAbsent, time.Since(start), true)
		return nil, false, nil
	}

	line, found, err := TypeLine(source)
	if err != nil {
		recordSignatureMetrics(ctx, pathComment, time.Since(start), false)
		return nil, false, fmt.Errorf("function %q: %w", fn.Name(), err)
	}
	if !found {
		setSignaturePath(span, pathAbsent)
		recordSignatureMetrics(ctx, pathAbsent, time.Since(start), true)
		return nil, false, nil
	}

	sig, err := ParseTypeLine(line)
	recordSignatureMetrics(ctx, pathComment, time.Since(start), err == nil)
	if err != nil {
		return nil, false, fmt.Errorf("function %q: %w", fn.Name(), err)
	}
	setSignaturePath(span, pathComment)
	return sig, true, nil
}

// nativeSignature resolves every slot of an annotated live signature,
// substituting the absence marker for unspecified slots.
func nativeSignature(ls LiveSignature) (*Signature, error) {
	args := make([]ir.Type, len(ls.Params))
	for i, p := range ls.Params {
		t, err := AnnToType(slotValue(p))
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		args[i] = t
	}
	ret, err := AnnToType(slotValue(ls.Return))
	if err != nil {
		return nil, fmt.Errorf("return type: %w", err)
	}
	return &Signature{Args: args, Ret: ret}, nil
}

// slotValue converts an unspecified slot into the absence marker.
func slotValue(s Slot) typeexpr.Value {
	if s.Ann == nil {
		return typeexpr.Absent
	}
	return s.Ann
}
