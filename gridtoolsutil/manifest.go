/*
Copyright © 2024 the gridtools authors.
This file is part of gridtools.

gridtools is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridtools is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridtools.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridtoolsutil

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/gridtools"
)

// Manifest describes the output of a gefdc run.
type Manifest struct {
	Version string
	Title   string
	Nodes   string
	Mask    string

	INodes, JNodes int
	ICells, JCells int

	// CellCounts is the number of cells with each GEFDC cell code, keyed
	// by the code.
	CellCounts map[string]int

	Files []string
}

func newManifest(g *gridtools.ModelGrid, cells [][]int) *Manifest {
	m := &Manifest{
		Version:    gridtools.Version,
		INodes:     g.INodes(),
		JNodes:     g.JNodes(),
		ICells:     g.ICells(),
		JCells:     g.JCells(),
		CellCounts: make(map[string]int),
	}
	for _, row := range cells {
		for _, c := range row {
			m.CellCounts[fmt.Sprint(c)]++
		}
	}
	return m
}

// WriteManifest writes m to path as TOML.
func WriteManifest(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gridtools: writing manifest: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("gridtools: writing manifest: %v", err)
	}
	return f.Close()
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	m := new(Manifest)
	if _, err := toml.DecodeFile(path, m); err != nil {
		return nil, fmt.Errorf("gridtools: reading manifest: %v", err)
	}
	return m, nil
}
