// Copyright (C) 2025 Proyecto PlatonIA (Sistema Lagrange)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"fmt"

	"github.com/sistemaproyectomunidal/platonia-lab/services/graph/dataset"
)

// NewEmbedded builds a store from the dataset baked into the binary.
//
// This is the zero-configuration path: no database, no files on disk. The
// embedded dataset is the same one the concept map UI ships with.
func NewEmbedded() (*Store, error) {
	s, err := NewFromBytes(dataset.Nodes, dataset.Questions)
	if err != nil {
		return nil, fmt.Errorf("embedded dataset is malformed: %w", err)
	}
	return s, nil
}
