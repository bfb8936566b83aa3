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

var sigCmd = &cobra.Command{
	Use:   "sig [files...]",
	Short: "Resolve the type signatures of top-level functions",
	Long: `Reads each Python file, finds its top-level function definitions,
and resolves their type annotations. Native parameter and return
annotations take precedence; functions without them fall back to the
"# type: (...) -> ..." comment form. Functions with neither are
reported as unannotated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSig,
}

func init() {
	rootCmd.AddCommand(sigCmd)
}

func runSig(cmd *cobra.Command, args []string) error {
	reports := processFiles(cmd.Context(), args, sigWorker)

	for _, fr := range reports {
		if fr.Error != "" {
			logger.Error("file failed", "path", fr.Path, "error", fr.Error)
		} else {
			logger.Debug("file processed", "path", fr.Path, "functions", len(fr.Functions))
		}
	}

	return writeReports(os.Stdout, reports, outputFormat())
}

func sigWorker(ctx context.Context, path string, source string) FileReport {
	fr := FileReport{Path: path}

	fns, err := pysrc.Functions(ctx, source)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}

	for _, fn := range fns {
		report := FunctionReport{Name: fn.Name()}

		sig, found, err := annotations.GetSignature(ctx, fn)
		switch {
		case err != nil:
			report.Error = err.Error()
		case found:
			report.Annotated = true
			report.Signature = sig.String()
			for _, a := range sig.Args {
				report.Args = append(report.Args, a.String())
			}
			report.Return = sig.Ret.String()
		}
		fr.Functions = append(fr.Functions, report)
	}
	return fr
}
