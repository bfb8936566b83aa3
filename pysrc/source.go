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
	"strings"
)

// Functions extracts every top-level function of a Python module as a
// Function.
//
// Description:
//
//	The module source is parsed once and each top-level function
//	definition, decorated or not, is sliced out with its exact source text
//	(decorators included) and constructed via NewFunction. Classes and
//	other statements are skipped; methods inside classes are not
//	extracted.
//
// Inputs:
//   - ctx: Context for cancellation.
//   - source: The module source text.
//
// Outputs:
//   - []*Function: The functions in source order; may be empty.
//   - error: A parse or annotation failure for any function.
func Functions(ctx context.Context, source string) ([]*Function, error) {
	p := NewParser()
	tree, content, err := p.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	fns := make([]*Function, 0)
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		isFn := child.Type() == "function_definition"
		if child.Type() == "decorated_definition" {
			if def := child.ChildByFieldName("definition"); def != nil && def.Type() == "function_definition" {
				isFn = true
			}
		}
		if !isFn {
			continue
		}
		fn, err := NewFunction(string(content[child.StartByte():child.EndByte()]))
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// Dedent removes the longest common leading whitespace from every line of
// text, matching what textwrap.dedent does for method sources retrieved
// with their class-body indentation. Blank and whitespace-only lines are
// ignored when computing the common prefix.
func Dedent(text string) string {
	lines := strings.Split(text, "\n")

	prefix := ""
	havePrefix := false
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		if !havePrefix {
			prefix = indent
			havePrefix = true
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}
	if !havePrefix || prefix == "" {
		return text
	}

	for i, line := range lines {
		if strings.TrimLeft(line, " \t") == "" {
			continue
		}
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

// commonPrefix returns the longest shared leading substring of two
// whitespace prefixes.
func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
