// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var historyExportPath string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the local analysis history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print recorded analyses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer hist.Close()

		entries, err := hist.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No hay análisis registrados.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Prompt)
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", e.Summary)
			for _, q := range e.Questions {
				fmt.Fprintf(cmd.OutOrStdout(), "    - %s\n", q.Text)
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer hist.Close()

		if err := hist.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Historial borrado.")
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the history as a JSON array",
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer hist.Close()

		out := cmd.OutOrStdout()
		if historyExportPath != "" {
			f, err := os.Create(historyExportPath)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			out = f
		}
		return hist.Export(cmd.Context(), out)
	},
}

func init() {
	historyExportCmd.Flags().StringVarP(&historyExportPath, "output", "o", "", "write to a file instead of stdout")
}
