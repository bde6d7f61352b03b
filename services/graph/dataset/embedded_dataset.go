// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
This file bridges the build system and the runtime graph store. It uses the Go
embed package to bake the concept map dataset directly into the compiled
binary, so a deployment without a database or a dataset file on disk still has
a complete, immutable concept graph to analyze against.
*/

package dataset

import (
	_ "embed"
)

// Nodes holds the raw byte content of the 'nodes.json' dataset file.
//
// Populated at compile time via the Go 'embed' directive. Pass these bytes
// directly to graph.ParseDataset.
//
//go:embed nodes.json
var Nodes []byte

// Questions holds the raw byte content of the 'socratic_questions.json'
// dataset file. Question entries in this file are duck-typed (some use
// text/axis, others question/related_axis); the graph store normalizes them
// at load time.
//
//go:embed socratic_questions.json
var Questions []byte
