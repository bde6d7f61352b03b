// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestFileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "lagrange-test",
		Quiet:   true,
	})
	logger.Info("analysis completed", "tension_level", 7)
	require.NoError(t, logger.Close())

	name := fmt.Sprintf("lagrange-test_%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), "analysis completed")
	assert.Contains(t, string(data), `"service":"lagrange-test"`)
	assert.Contains(t, string(data), `"tension_level":7`)
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  dir,
		Service: "filter-test",
		Quiet:   true,
	})
	logger.Debug("dropped")
	logger.Info("also dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Close())

	name := fmt.Sprintf("filter-test_%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestWithAddsAttributes(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "with-test",
		Quiet:   true,
	})
	child := logger.With("request_id", "req-42")
	child.Info("handling request")
	require.NoError(t, logger.Close())

	name := fmt.Sprintf("with-test_%s.log", time.Now().Format("2006-01-02"))
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), "req-42")
}

func TestBufferedExporterReceivesEntries(t *testing.T) {
	exporter := NewBufferedExporter()
	logger := New(Config{
		Level:    LevelInfo,
		Service:  "export-test",
		Quiet:    true,
		Exporter: exporter,
	})
	logger.Info("exported message", "key", "value")

	// Export is asynchronous; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(exporter.Entries()) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, logger.Close())

	entries := exporter.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "exported message", entries[0].Message)
	assert.Equal(t, "export-test", entries[0].Service)
	assert.Equal(t, "value", entries[0].Attrs["key"])
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded := expandPath("~/.platonia/logs")
	assert.True(t, strings.HasPrefix(expanded, home))
	assert.Equal(t, "/var/log/lagrange", expandPath("/var/log/lagrange"))
}

func TestArgsToMap(t *testing.T) {
	m := argsToMap([]any{"a", 1, "b", "two", 3, "ignored-non-string-key"})
	assert.Equal(t, 1, m["a"])
	assert.Equal(t, "two", m["b"])
	assert.Len(t, m, 2)
}
