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
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/tensorscript/annotations"
	"github.com/AleutianAI/tensorscript/typeexpr"
)

// FunctionOption configures a Function instance.
type FunctionOption func(*Function)

// WithBoundReceiver marks the function as a bound instance method, so its
// implicit receiver parameter is excluded from declared arity.
func WithBoundReceiver() FunctionOption {
	return func(f *Function) {
		f.bound = true
	}
}

// WithoutSource models a callable whose source cannot be retrieved, e.g. a
// built-in or dynamically generated function. The signature facade treats
// such callables as unannotated rather than failing.
func WithoutSource() FunctionOption {
	return func(f *Function) {
		f.hasSource = false
	}
}

// Function is one Python function viewed as an annotations.Callable.
//
// Description:
//
//	A Function carries the function's dedented source text and a live
//	signature built from any native parameter and return annotations found
//	in its def line. Native annotation expressions are parsed against the
//	restricted symbol environment when the Function is constructed, so an
//	unresolvable native annotation fails construction, mirroring a name
//	error at definition time.
//
// Thread Safety:
//
//	Function values are immutable after construction and safe for
//	concurrent use.
type Function struct {
	name      string
	source    string
	hasSource bool
	bound     bool
	live      annotations.LiveSignature
}

// NewFunction builds a Function from one function's source text.
//
// Description:
//
//	The source is dedented and parsed; it must contain exactly one
//	top-level function definition. Parameter and return annotations in the
//	def line become the live signature; a def with no native annotations
//	yields a live signature whose slots are all unspecified, which defers
//	the facade to the comment path.
//
// Inputs:
//   - source: The function's source text, indented or not.
//   - opts: Optional configuration (WithBoundReceiver, WithoutSource).
//
// Outputs:
//   - *Function: The constructed callable view.
//   - error: ErrNoFunction when the source holds no function definition;
//     an annotation parse failure when a native annotation does not
//     resolve against the restricted environment.
func NewFunction(source string, opts ...FunctionOption) (*Function, error) {
	src := Dedent(source)

	p := NewParser()
	tree, content, err := p.parse(context.Background(), src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	var fnNode *sitter.Node
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "function_definition":
			if fnNode != nil {
				return nil, fmt.Errorf("%w: multiple function definitions", ErrNoFunction)
			}
			fnNode = child
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
				if fnNode != nil {
					return nil, fmt.Errorf("%w: multiple function definitions", ErrNoFunction)
				}
				fnNode = def
			}
		}
	}
	if fnNode == nil {
		return nil, ErrNoFunction
	}

	fn := &Function{
		name:      nodeName(fnNode, content),
		source:    src,
		hasSource: true,
	}

	params := extractParams(fnNode.ChildByFieldName("parameters"), content)
	retText := ""
	if ret := fnNode.ChildByFieldName("return_type"); ret != nil {
		retText = string(content[ret.StartByte():ret.EndByte()])
	}

	fn.live, err = liveSignature(fn.name, params, retText)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(fn)
	}
	return fn, nil
}

// liveSignature parses native annotation texts into a live signature.
func liveSignature(fnName string, params []paramInfo, retText string) (annotations.LiveSignature, error) {
	ls := annotations.LiveSignature{
		Params: make([]annotations.Slot, len(params)),
	}
	for i, p := range params {
		slot := annotations.Slot{Name: p.name}
		if p.annText != "" {
			v, err := typeexpr.Parse(p.annText)
			if err != nil {
				return ls, fmt.Errorf("function %q, parameter %q: %w", fnName, p.name, err)
			}
			slot.Ann = v
		}
		ls.Params[i] = slot
	}
	if retText != "" {
		v, err := typeexpr.Parse(retText)
		if err != nil {
			return ls, fmt.Errorf("function %q, return annotation: %w", fnName, err)
		}
		ls.Return.Ann = v
	}
	return ls, nil
}

// Source returns the dedented source text, or false when the Function was
// constructed WithoutSource.
func (f *Function) Source() (string, bool) {
	if !f.hasSource {
		return "", false
	}
	return f.source, true
}

// LiveSignature returns the live signature built from native annotations.
func (f *Function) LiveSignature() (annotations.LiveSignature, bool) {
	return f.live, true
}

// BoundMethod reports whether the function is a bound instance method.
func (f *Function) BoundMethod() bool { return f.bound }

// Name returns the function's declared name.
func (f *Function) Name() string { return f.name }

// Compile-time interface compliance check.
var _ annotations.Callable = (*Function)(nil)
