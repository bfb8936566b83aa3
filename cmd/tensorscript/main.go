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
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/tensorscript/pkg/logging"
)

var (
	rootCmd = &cobra.Command{
		Use:   "tensorscript",
		Short: "Inspect scriptable type annotations in Python sources",
		Long: `tensorscript resolves the type annotations of Python functions,
both native annotations and the legacy "# type:" comment form, into a
closed tensor-oriented type language.`,
	}

	flagFormat   string
	flagLogLevel string
	flagLogDir   string
	flagQuiet    bool

	logger *logging.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "",
		"output format: text, json, or yaml (default: text on a terminal, json otherwise)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"minimum log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "",
		"directory for log files (disabled when empty)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false,
		"suppress log output on stderr")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger = logging.New(logging.Config{
			Level:   parseLogLevel(flagLogLevel),
			LogDir:  flagLogDir,
			Service: "cli",
			Quiet:   flagQuiet,
		})
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Close()
		}
	}
}

func parseLogLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

// outputFormat resolves the effective output format. An explicit --format
// wins; otherwise terminals get text and pipes get json.
func outputFormat() string {
	if flagFormat != "" {
		return flagFormat
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return "text"
	}
	return "json"
}
