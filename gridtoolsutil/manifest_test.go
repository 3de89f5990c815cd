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
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spatialmodel/gridtools"
)

func TestManifest(t *testing.T) {
	m := &Manifest{
		Version:    gridtools.Version,
		Title:      "test grid",
		Nodes:      "nodes.shp",
		INodes:     4,
		JNodes:     3,
		ICells:     3,
		JCells:     2,
		CellCounts: map[string]int{"2": 2, "5": 4},
		Files:      []string{gridtools.GridOutFile, gridtools.CellInpFile},
	}
	path := filepath.Join(t.TempDir(), "gridtools.toml")
	if err := WriteManifest(path, m); err != nil {
		t.Fatal(err)
	}
	have, err := ReadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(have, m) {
		t.Errorf("have %+v, want %+v", have, m)
	}

	if _, err := ReadManifest(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("want an error for a missing file")
	}
}
