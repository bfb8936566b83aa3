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
)

// typeComment is the sentinel marking a type annotation comment line.
const typeComment = "# type:"

// TypeLine locates and reassembles the type comment declaration in a
// function's source.
//
// Description:
//
//	All source lines are scanned for the "# type:" sentinel. No match means
//	the function is unannotated, which is not an error. A single match is
//	returned trimmed and verbatim. Multiple matches are treated as a
//	declaration split across physical lines: argument-type lines must be
//	strictly consecutive (line-number gap of 1), and the return-type line
//	must follow the last argument line at a gap of exactly 2, leaving room
//	for the closing-paren line of the parameter list. The return line must
//	contain a literal "..." placeholder, which is replaced by the argument
//	fragments joined with ", " to produce one logical declaration.
//
// Inputs:
//   - source: The function's raw source text.
//
// Outputs:
//   - string: The logical declaration, e.g. "# type: (Tensor, int) -> Tensor".
//   - bool: False when no type comment is present.
//   - error: ErrAnnotationStructure when the line gaps are invalid, no
//     return-type line is ever found, or the return line lacks the "..."
//     placeholder. End-of-source during accumulation is a malformed
//     annotation, never an implicit absence.
func TypeLine(source string) (string, bool, error) {
	type matchedLine struct {
		num  int
		text string
	}

	var matches []matchedLine
	for i, line := range strings.Split(source, "\n") {
		if strings.Contains(line, typeComment) {
			matches = append(matches, matchedLine{num: i, text: line})
		}
	}

	if len(matches) == 0 {
		return "", false, nil
	}
	if len(matches) == 1 {
		return strings.TrimSpace(matches[0].text), true, nil
	}

	// Split declaration: accumulate argument lines, then find the return
	// line at a gap of exactly 2.
	var paramLines []string
	var returnLine string
	prev := -1
	for _, m := range matches {
		if prev >= 0 {
			switch m.num - prev {
			case 1:
				// Another argument type line.
			case 2:
				returnLine = m.text
			default:
				return "", false, fmt.Errorf(
					"%w: too many lines between %q annotations on line %q (expected 1 or 2, found %d)",
					ErrAnnotationStructure, typeComment, strings.TrimSpace(m.text), m.num-prev)
			}
			if returnLine != "" {
				break
			}
		}
		paramLines = append(paramLines, m.text)
		prev = m.num
	}

	if returnLine == "" {
		return "", false, fmt.Errorf(
			"%w: did not find return type line in multi-line type annotation",
			ErrAnnotationStructure)
	}

	for i, line := range paramLines {
		idx := strings.Index(line, typeComment)
		paramLines[i] = strings.TrimSpace(line[idx+len(typeComment):])
	}
	params := strings.Join(paramLines, ", ")

	before, after, ok := strings.Cut(returnLine, "...")
	if !ok {
		return "", false, fmt.Errorf(
			"%w: return type line %q is missing the \"...\" argument placeholder",
			ErrAnnotationStructure, strings.TrimSpace(returnLine))
	}

	return strings.TrimSpace(before + params + after), true, nil
}
