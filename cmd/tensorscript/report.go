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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// FunctionReport describes one top-level function of a processed file.
type FunctionReport struct {
	Name      string   `json:"name" yaml:"name"`
	Signature string   `json:"signature,omitempty" yaml:"signature,omitempty"`
	Args      []string `json:"args,omitempty" yaml:"args,omitempty"`
	Return    string   `json:"return,omitempty" yaml:"return,omitempty"`
	Annotated bool     `json:"annotated" yaml:"annotated"`
	NumParams *int     `json:"num_params,omitempty" yaml:"num_params,omitempty"`
	Variadic  bool     `json:"variadic,omitempty" yaml:"variadic,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// FileReport collects the function reports of one source file.
type FileReport struct {
	Path      string           `json:"path" yaml:"path"`
	Functions []FunctionReport `json:"functions" yaml:"functions"`
	Error     string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// fileWorker turns one file's source text into a FileReport.
type fileWorker func(ctx context.Context, path string, source string) FileReport

// processFiles runs the worker over every path concurrently and returns
// the reports in input order. A file that cannot be read yields a report
// carrying the read error rather than failing the whole run.
func processFiles(ctx context.Context, paths []string, worker fileWorker) []FileReport {
	reports := make([]FileReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				reports[i] = FileReport{Path: path, Error: err.Error()}
				return nil
			}
			reports[i] = worker(ctx, path, string(data))
			return nil
		})
	}

	// Workers never return errors; failures are carried in the reports.
	_ = g.Wait()
	return reports
}

// writeReports renders the reports to w in the requested format.
func writeReports(w io.Writer, reports []FileReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(reports)
	case "text":
		writeText(w, reports)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json, or yaml)", format)
	}
}

func writeText(w io.Writer, reports []FileReport) {
	width := nameWidth(reports)
	for _, fr := range reports {
		fmt.Fprintf(w, "%s:\n", fr.Path)
		if fr.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", fr.Error)
			continue
		}
		if len(fr.Functions) == 0 {
			fmt.Fprintln(w, "  (no top-level functions)")
			continue
		}
		for _, fn := range fr.Functions {
			var detail string
			switch {
			case fn.Error != "":
				detail = "error: " + fn.Error
			case fn.NumParams != nil:
				detail = fmt.Sprintf("%d params", *fn.NumParams)
			case fn.Variadic:
				detail = "indeterminate (variadic or keyword-only params)"
			case fn.Signature != "":
				detail = fn.Signature
			default:
				detail = "unannotated"
			}
			fmt.Fprintf(w, "  %-*s %s\n", width, fn.Name, detail)
		}
	}
}

// nameWidth returns the widest function name, so the detail column lines up.
func nameWidth(reports []FileReport) int {
	width := 0
	for _, fr := range reports {
		for _, fn := range fr.Functions {
			if len(fn.Name) > width {
				width = len(fn.Name)
			}
		}
	}
	return width
}
