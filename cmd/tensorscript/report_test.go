// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModule = `def scale(x: Tensor, factor: float) -> Tensor:
    return x * factor

def add(x, y):
    # type: (Tensor, Tensor) -> Tensor
    return x + y

def plain(x):
    return x

def spread(*xs):
    return xs
`

func TestSigWorker(t *testing.T) {
	fr := sigWorker(context.Background(), "model.py", testModule)
	require.Empty(t, fr.Error)
	require.Len(t, fr.Functions, 4)

	assert.Equal(t, "scale", fr.Functions[0].Name)
	assert.True(t, fr.Functions[0].Annotated)
	assert.Equal(t, "(Tensor, float) -> Tensor", fr.Functions[0].Signature)
	assert.Equal(t, []string{"Tensor", "float"}, fr.Functions[0].Args)
	assert.Equal(t, "Tensor", fr.Functions[0].Return)

	assert.Equal(t, "add", fr.Functions[1].Name)
	assert.True(t, fr.Functions[1].Annotated)
	assert.Equal(t, "(Tensor, Tensor) -> Tensor", fr.Functions[1].Signature)

	assert.Equal(t, "plain", fr.Functions[2].Name)
	assert.False(t, fr.Functions[2].Annotated)
	assert.Empty(t, fr.Functions[2].Signature)
	assert.Empty(t, fr.Functions[2].Error)
}

func TestSigWorker_MalformedAnnotation(t *testing.T) {
	source := "def bad(x):\n    # type: (Wrong) -> Tensor\n    return x\n"
	fr := sigWorker(context.Background(), "bad.py", source)
	require.Len(t, fr.Functions, 1)
	assert.False(t, fr.Functions[0].Annotated)
	assert.Contains(t, fr.Functions[0].Error, "Wrong")
}

func TestArityWorker(t *testing.T) {
	fr := arityWorker(context.Background(), "model.py", testModule)
	require.Empty(t, fr.Error)
	require.Len(t, fr.Functions, 4)

	require.NotNil(t, fr.Functions[0].NumParams)
	assert.Equal(t, 2, *fr.Functions[0].NumParams)

	require.NotNil(t, fr.Functions[2].NumParams)
	assert.Equal(t, 1, *fr.Functions[2].NumParams)

	assert.Nil(t, fr.Functions[3].NumParams)
	assert.True(t, fr.Functions[3].Variadic)
}

func TestProcessFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.py")
	require.NoError(t, os.WriteFile(good, []byte(testModule), 0644))
	missing := filepath.Join(dir, "missing.py")

	reports := processFiles(context.Background(), []string{good, missing}, sigWorker)
	require.Len(t, reports, 2)

	assert.Equal(t, good, reports[0].Path)
	assert.Empty(t, reports[0].Error)
	assert.Len(t, reports[0].Functions, 4)

	assert.Equal(t, missing, reports[1].Path)
	assert.NotEmpty(t, reports[1].Error)
}

func TestWriteReports_JSON(t *testing.T) {
	reports := []FileReport{{
		Path: "a.py",
		Functions: []FunctionReport{
			{Name: "f", Annotated: true, Signature: "(Tensor) -> Tensor"},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, reports, "json"))

	var decoded []FileReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, reports, decoded)
}

func TestWriteReports_YAML(t *testing.T) {
	reports := []FileReport{{
		Path:      "a.py",
		Functions: []FunctionReport{{Name: "f", Annotated: true}},
	}}

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, reports, "yaml"))
	assert.Contains(t, buf.String(), "path: a.py")
	assert.Contains(t, buf.String(), "name: f")
}

func TestWriteReports_Text(t *testing.T) {
	n := 3
	reports := []FileReport{
		{
			Path: "a.py",
			Functions: []FunctionReport{
				{Name: "f", Annotated: true, Signature: "(Tensor) -> Tensor"},
				{Name: "g", NumParams: &n},
				{Name: "h", Variadic: true},
				{Name: "plain"},
			},
		},
		{Path: "b.py", Error: "no such file"},
		{Path: "c.py"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, reports, "text"))
	out := buf.String()

	assert.Contains(t, out, "a.py:")
	assert.Contains(t, out, "(Tensor) -> Tensor")
	assert.Contains(t, out, "3 params")
	assert.Contains(t, out, "indeterminate")
	assert.Contains(t, out, "unannotated")
	assert.Contains(t, out, "error: no such file")
	assert.Contains(t, out, "(no top-level functions)")
}

func TestWriteText_ColumnAlignment(t *testing.T) {
	reports := []FileReport{{
		Path: "a.py",
		Functions: []FunctionReport{
			{Name: "f", Annotated: true, Signature: "(Tensor) -> Tensor"},
			{Name: "much_longer_name", Annotated: true, Signature: "(int) -> int"},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, reports, "text"))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	// Detail columns start at the same offset, padded to the widest name.
	assert.Equal(t, strings.Index(lines[1], "(Tensor)"), strings.Index(lines[2], "(int)"))
	assert.Equal(t, "  f                (Tensor) -> Tensor", lines[1])
}

func TestWriteReports_UnknownFormat(t *testing.T) {
	err := writeReports(&bytes.Buffer{}, nil, "xml")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "xml"))
}
