// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pysrc

import (
	"context"
	"errors"
	"testing"

	"github.com/AleutianAI/tensorscript/annotations"
	"github.com/AleutianAI/tensorscript/ir"
	"github.com/AleutianAI/tensorscript/typeexpr"
)

const (
	testPyNative = `def scale(x: Tensor, factor: float) -> Tensor:
    return x * factor
`

	testPyNativePartial = `def shift(x, offset: int) -> Tensor:
    return x + offset
`

	testPyNativeAndComment = `def both(x: Tensor) -> Tensor:
    # type: (int) -> int
    return x
`

	testPyCommentOnly = `def add(x, y):
    # type: (Tensor, Tensor) -> Tensor
    return x + y
`

	testPyCommentMultiLine = `def add(x,  # type: Tensor
        y,  # type: Tensor
        ):
    # type: (...) -> Tensor
    return x + y
`

	testPyUnknownNative = `def weird(x: SomeClass) -> Tensor:
    return x
`

	testPyModule = `"""Example module."""

import math

def first(x):
    # type: (Tensor) -> Tensor
    return x

class Helper:
    def method(self):
        return None

@trace
def second(x: int) -> int:
    return x
`
)

func TestNewFunction_NativeAnnotations(t *testing.T) {
	fn, err := NewFunction(testPyNative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fn.Name() != "scale" {
		t.Errorf("expected name 'scale', got %q", fn.Name())
	}

	ls, ok := fn.LiveSignature()
	if !ok {
		t.Fatal("expected a live signature")
	}
	if len(ls.Params) != 2 {
		t.Fatalf("expected 2 param slots, got %d", len(ls.Params))
	}
	if ls.Params[0].Ann == nil || ls.Params[0].Ann.Display() != "Tensor" {
		t.Errorf("unexpected annotation for x: %+v", ls.Params[0].Ann)
	}
	if ls.Return.Ann == nil {
		t.Error("expected a return annotation")
	}
}

func TestNewFunction_UnannotatedSlotsAreUnspecified(t *testing.T) {
	fn, err := NewFunction(testPyNativePartial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ls, _ := fn.LiveSignature()
	if ls.Params[0].Ann != nil {
		t.Error("expected unannotated param slot to be unspecified")
	}
	if ls.Params[1].Ann == nil {
		t.Error("expected annotated param slot to carry a value")
	}
}

func TestNewFunction_UnknownNativeAnnotation(t *testing.T) {
	_, err := NewFunction(testPyUnknownNative)
	if !errors.Is(err, typeexpr.ErrUnknownIdentifier) {
		t.Fatalf("expected ErrUnknownIdentifier, got %v", err)
	}
}

func TestNewFunction_NoFunction(t *testing.T) {
	_, err := NewFunction("x = 1\n")
	if !errors.Is(err, ErrNoFunction) {
		t.Fatalf("expected ErrNoFunction, got %v", err)
	}
}

func TestNewFunction_IndentedMethodSource(t *testing.T) {
	fn, err := NewFunction(testPyMethodIndented, WithBoundReceiver())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fn.BoundMethod() {
		t.Error("expected bound method")
	}
	src, ok := fn.Source()
	if !ok {
		t.Fatal("expected source")
	}
	if src[0] == ' ' {
		t.Errorf("expected dedented source, got %q", src)
	}
}

func TestGetSignature_NativePath(t *testing.T) {
	fn, err := NewFunction(testPyNative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig, found, err := annotations.GetSignature(context.Background(), fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a signature")
	}
	if len(sig.Args) != 2 || !ir.Equal(sig.Args[1], ir.Float) {
		t.Errorf("unexpected args: %v", sig.Args)
	}
	if !ir.Equal(sig.Ret, ir.Tensor) {
		t.Errorf("unexpected return: %s", sig.Ret)
	}
}

func TestGetSignature_NativeWinsOverComment(t *testing.T) {
	fn, err := NewFunction(testPyNativeAndComment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sig, found, err := annotations.GetSignature(context.Background(), fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a signature")
	}
	if !ir.Equal(sig.Ret, ir.Tensor) {
		t.Errorf("expected native Tensor return to win, got %s", sig.Ret)
	}
}

func TestGetSignature_CommentPath(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
	}{
		{"single line", testPyCommentOnly},
		{"multi line", testPyCommentMultiLine},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fn, err := NewFunction(tc.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			sig, found, err := annotations.GetSignature(context.Background(), fn)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !found {
				t.Fatal("expected a signature")
			}
			if len(sig.Args) != 2 {
				t.Fatalf("expected 2 args, got %d", len(sig.Args))
			}
			for i, a := range sig.Args {
				if !ir.Equal(a, ir.Tensor) {
					t.Errorf("arg %d: got %s, want Tensor", i, a)
				}
			}
		})
	}
}

func TestGetSignature_Unannotated(t *testing.T) {
	fn, err := NewFunction(testPySimple)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sig, found, err := annotations.GetSignature(context.Background(), fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found || sig != nil {
		t.Error("expected absent result for unannotated function")
	}
}

func TestGetSignature_WithoutSource(t *testing.T) {
	fn, err := NewFunction(testPySimple, WithoutSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, found, err := annotations.GetSignature(context.Background(), fn)
	if err != nil {
		t.Fatalf("source unavailability must not be an error, got: %v", err)
	}
	if found {
		t.Error("expected absent result")
	}
}

func TestNumParams_WithRealParser(t *testing.T) {
	parser := NewParser()
	ctx := context.Background()

	t.Run("plain function", func(t *testing.T) {
		fn, err := NewFunction(testPySimple)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, ok, err := annotations.NumParams(ctx, fn, parser)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || n != 2 {
			t.Errorf("expected 2 params, got n=%d ok=%v", n, ok)
		}
	})

	t.Run("bound method", func(t *testing.T) {
		fn, err := NewFunction(testPyMethodIndented, WithBoundReceiver())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, ok, err := annotations.NumParams(ctx, fn, parser)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || n != 2 {
			t.Errorf("expected 2 params (receiver excluded), got n=%d ok=%v", n, ok)
		}
	})

	t.Run("variadic", func(t *testing.T) {
		fn, err := NewFunction(testPyVariadic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, ok, err := annotations.NumParams(ctx, fn, parser)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected indeterminate arity")
		}
	})
}

func TestFunctions_Module(t *testing.T) {
	fns, err := Functions(context.Background(), testPyModule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fns) != 2 {
		t.Fatalf("expected 2 top-level functions, got %d", len(fns))
	}
	if fns[0].Name() != "first" || fns[1].Name() != "second" {
		t.Errorf("unexpected function names: %s, %s", fns[0].Name(), fns[1].Name())
	}

	// The first function carries a comment annotation.
	sig, found, err := annotations.GetSignature(context.Background(), fns[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || !ir.Equal(sig.Ret, ir.Tensor) {
		t.Errorf("unexpected signature for 'first': %v found=%v", sig, found)
	}

	// The second carries native annotations.
	sig, found, err = annotations.GetSignature(context.Background(), fns[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || !ir.Equal(sig.Ret, ir.Int) {
		t.Errorf("unexpected signature for 'second': %v found=%v", sig, found)
	}
}
