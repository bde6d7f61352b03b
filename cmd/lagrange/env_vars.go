// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"strconv"
)

// Environment variables understood by the lagrange binary:
//
//	LAGRANGE_PORT                 HTTP port for serve (default 8080)
//	LLM_BACKEND_TYPE              "openai" (default) or "gemini"
//	OPENAI_API_KEY, OPENAI_MODEL  OpenAI backend settings
//	GEMINI_ENDPOINT               Gemini relay URL
//	DATABASE_URL                  Postgres DSN for demos and the catalog
//	LAGRANGE_SQLITE_PATH          SQLite fallback when DATABASE_URL is unset
//	LAGRANGE_NODES_PATH           concept node JSON file (default: embedded)
//	LAGRANGE_QUESTIONS_PATH       socratic question JSON file (default: embedded)
//	LAGRANGE_MATCH_STRATEGY       "substring" (default) or "word-boundary"
//	LAGRANGE_HISTORY_DIR          local history directory (default ~/.platonia/history)
//	LAGRANGE_LOG_DIR              log file directory (default: stderr only)
//	OTEL_EXPORTER_OTLP_ENDPOINT   OTLP collector, enables tracing when set

func getEnvString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
