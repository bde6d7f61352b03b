// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sistemaproyectomunidal/platonia-lab/services/analysis"
)

var (
	analyzeAxis    string
	analyzeContext string
	analyzeNoSave  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <texto>",
	Short: "Run one socratic analysis and print the result as JSON",
	Long: `Analyze runs the full pipeline once against the given text. Bracket
tokens like [miedo] target concept nodes directly. The result lands in the
local history unless --no-save is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeAxis, "axis", "", "target axis (L1 to L5)")
	analyzeCmd.Flags().StringVar(&analyzeContext, "context", "", "extra context for the model")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "skip the local history")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogging("lagrange-cli")
	defer logger.Close()

	store, _, err := buildGraphStore()
	if err != nil {
		return err
	}

	svc, err := buildAnalysisService(store, nil)
	if err != nil {
		return err
	}

	input := strings.Join(args, " ")
	result := svc.RunAnalysis(cmd.Context(), analysis.AnalysisRequest{
		UserInput:  input,
		Context:    analyzeContext,
		TargetAxis: analyzeAxis,
	})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !analyzeNoSave && result.OK {
		saveToHistory(cmd, input, result)
	}

	if !result.OK {
		return fmt.Errorf("analysis failed: %s", result.ErrorMessage)
	}
	return nil
}

// saveToHistory appends the result to the local store. Failures are logged,
// not fatal, so the printed result always stands.
func saveToHistory(cmd *cobra.Command, input string, result analysis.AnalysisResult) {
	hist, err := openHistoryStore()
	if err != nil {
		slog.Warn("History unavailable", "error", err)
		return
	}
	defer hist.Close()

	if _, err := hist.Append(cmd.Context(), historyEntryFromResult(input, result)); err != nil {
		slog.Warn("Failed to record the analysis in history", "error", err)
	}
}
