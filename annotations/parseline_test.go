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
	"errors"
	"strings"
	"testing"

	"github.com/AleutianAI/tensorscript/ir"
)

func TestParseTypeLine_TwoArgs(t *testing.T) {
	sig, err := ParseTypeLine("# type: (Tensor, Tensor) -> Tensor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(sig.Args))
	}
	for i, a := range sig.Args {
		if !ir.Equal(a, ir.Tensor) {
			t.Errorf("arg %d: got %s, want Tensor", i, a)
		}
	}
	if !ir.Equal(sig.Ret, ir.Tensor) {
		t.Errorf("return: got %s, want Tensor", sig.Ret)
	}
}

func TestParseTypeLine_MixedArgs(t *testing.T) {
	sig, err := ParseTypeLine("# type: (Tensor, Tuple[Tensor, Tensor], int) -> Tuple[Tensor]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ir.Type{
		ir.Tensor,
		ir.NewTuple(ir.Tensor, ir.Tensor),
		ir.Int,
	}
	if len(sig.Args) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(sig.Args))
	}
	for i := range want {
		if !ir.Equal(sig.Args[i], want[i]) {
			t.Errorf("arg %d: got %s, want %s", i, sig.Args[i], want[i])
		}
	}
	if !ir.Equal(sig.Ret, ir.NewTuple(ir.Tensor)) {
		t.Errorf("return: got %s, want Tuple[Tensor]", sig.Ret)
	}
}

func TestParseTypeLine_SingleArgWithoutParens(t *testing.T) {
	sig, err := ParseTypeLine("# type: Tensor -> Tensor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(sig.Args))
	}
	if !ir.Equal(sig.Args[0], ir.Tensor) {
		t.Errorf("arg: got %s, want Tensor", sig.Args[0])
	}
}

func TestParseTypeLine_NoArgs(t *testing.T) {
	sig, err := ParseTypeLine("# type: () -> int")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig.Args) != 0 {
		t.Fatalf("expected 0 args, got %d", len(sig.Args))
	}
	if !ir.Equal(sig.Ret, ir.Int) {
		t.Errorf("return: got %s, want int", sig.Ret)
	}
}

func TestParseTypeLine_QualifiedNames(t *testing.T) {
	sig, err := ParseTypeLine("# type: (Tensor, torch.Tensor) -> typing.Tuple[Tensor, Tensor]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(sig.Args))
	}
	if !ir.Equal(sig.Ret, ir.NewTuple(ir.Tensor, ir.Tensor)) {
		t.Errorf("return: got %s", sig.Ret)
	}
}

func TestParseTypeLine_MissingArrow(t *testing.T) {
	_, err := ParseTypeLine("# type: (Tensor, Tensor)")
	if !errors.Is(err, ErrAnnotationSyntax) {
		t.Fatalf("expected ErrAnnotationSyntax, got %v", err)
	}
	if !strings.Contains(err.Error(), "->") {
		t.Errorf("error %q does not mention the arrow token", err)
	}
}

func TestParseTypeLine_UnknownIdentifier(t *testing.T) {
	_, err := ParseTypeLine("# type: (np.ndarray) -> Tensor")
	if !errors.Is(err, ErrAnnotationSyntax) {
		t.Fatalf("expected ErrAnnotationSyntax, got %v", err)
	}
	if !strings.Contains(err.Error(), "argument list") {
		t.Errorf("error %q does not name the failing sub-expression", err)
	}
}

func TestParseTypeLine_BadReturnExpression(t *testing.T) {
	_, err := ParseTypeLine("# type: (Tensor) -> Tuple[")
	if !errors.Is(err, ErrAnnotationSyntax) {
		t.Fatalf("expected ErrAnnotationSyntax, got %v", err)
	}
	if !strings.Contains(err.Error(), "return type") {
		t.Errorf("error %q does not name the failing sub-expression", err)
	}
}

func TestSignature_String(t *testing.T) {
	sig := &Signature{
		Args: []ir.Type{ir.Tensor, ir.NewList(ir.Int)},
		Ret:  ir.NewDict(ir.String, ir.Tensor),
	}
	want := "(Tensor, List[int]) -> Dict[str, Tensor]"
	if got := sig.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
