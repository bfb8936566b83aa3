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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/tensorscript/annotations"
	"github.com/AleutianAI/tensorscript/pysrc"
)

var arityCmd = &cobra.Command{
	Use:   "arity [files...]",
	Short: "Count the positional parameters of top-level functions",
	Long: `Reads each Python file and reports the positional parameter count
of every top-level function. Functions with *args or keyword-only
parameters have no fixed positional arity and are reported as
indeterminate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runArity,
}

func init() {
	rootCmd.AddCommand(arityCmd)
}

func runArity(cmd *cobra.Command, args []string) error {
	reports := processFiles(cmd.Context(), args, arityWorker)

	for _, fr := range reports {
		if fr.Error != "" {
			logger.Error("file failed", "path", fr.Path, "error", fr.Error)
		}
	}

	return writeReports(os.Stdout, reports, outputFormat())
}

func arityWorker(ctx context.Context, path string, source string) FileReport {
	fr := FileReport{Path: path}
	parser := pysrc.NewParser()

	fns, err := pysrc.Functions(ctx, source)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}

	for _, fn := range fns {
		report := FunctionReport{Name: fn.Name()}

		n, ok, err := annotations.NumParams(ctx, fn, parser)
		switch {
		case err != nil:
			report.Error = err.Error()
		case ok:
			report.NumParams = &n
		default:
			report.Variadic = true
		}
		fr.Functions = append(fr.Functions, report)
	}
	return fr
}
