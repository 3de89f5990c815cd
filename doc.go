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

// Package gridtools builds, masks and serializes structured curvilinear
// grids for the GEFDC hydrodynamic model.
//
// A ModelGrid holds the x and y coordinates of the grid nodes and a mask
// of excluded cells. Grids are created from node arrays, from tabular
// node records, from point shapefiles, or by an external Generator inside
// a Boundary. They can be masked with polygons, transformed and merged,
// encoded into GEFDC cell codes, and written as the GEFDC input files
// (grid.out, cell.inp, gefdc.inp, gridext.inp, depdat.inp) or as point
// and polygon shapefiles.
package gridtools

// Version is the version of gridtools.
const Version = "0.3.0"
