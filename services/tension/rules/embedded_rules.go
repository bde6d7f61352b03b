// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
This file bridges the build system and the runtime tension engine. It uses the
Go embed package to bake tension_rules.yaml into the compiled binary, so the
Regla de Oro configuration is immutable at runtime and travels with the
executable.
*/

package rules

import (
	_ "embed"
)

// TensionRules holds the raw byte content of the 'tension_rules.yaml' file.
//
// Populated at compile time via the Go 'embed' directive. Pass these bytes
// directly to yaml.Unmarshal.
//
//go:embed tension_rules.yaml
var TensionRules []byte
