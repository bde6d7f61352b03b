// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lagrange",
	Short: "A cli to run and query the PlatonIA socratic analysis service",
	Long: `Lagrange serves the PlatonIA lab: a socratic analysis pipeline over a
fixed concept map, with a podcast/corpus catalog and a local analysis history.`,
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyClearCmd, historyExportCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
