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

package gridtools

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// SolverParams are passed through to a Generator.
type SolverParams struct {
	// ULIdx is the index of the boundary vertex placed at the upper-left
	// corner of the grid.
	ULIdx int

	// NNodes is the number of nodes used in the Schwarz-Christoffel
	// quadrature.
	NNodes int

	// Precision is the solver convergence tolerance.
	Precision float64

	// NPPE is the number of points per internal edge.
	NPPE int

	Newton          bool
	Thin            bool
	CheckSimplePoly bool

	// Focus, if not nil, is handed to the generator unchanged to
	// concentrate nodes in part of the domain.
	Focus interface{}
}

// DefaultSolverParams returns the usual solver settings.
func DefaultSolverParams() SolverParams {
	return SolverParams{
		NNodes:          14,
		Precision:       1e-12,
		NPPE:            3,
		Newton:          true,
		Thin:            true,
		CheckSimplePoly: true,
	}
}

// A Generator builds the nodes of an orthogonal curvilinear grid with ny
// rows and nx columns inside a boundary.
type Generator interface {
	Generate(b Boundary, ny, nx int, p SolverParams) (x, y *mat.Dense, err error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(b Boundary, ny, nx int, p SolverParams) (x, y *mat.Dense, err error)

// Generate calls f.
func (f GeneratorFunc) Generate(b Boundary, ny, nx int, p SolverParams) (x, y *mat.Dense, err error) {
	return f(b, ny, nx, p)
}

// MakeGrid validates the boundary and dimensions, runs gen and wraps its
// nodes in a ModelGrid.
func MakeGrid(gen Generator, b Boundary, ny, nx int, p SolverParams) (*ModelGrid, error) {
	if gen == nil {
		return nil, valueErrorf("generator", "must not be nil")
	}
	if ny < 2 || nx < 2 {
		return nil, valueErrorf("shape", "need at least 2x2 nodes, got (%d, %d)", ny, nx)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if p.ULIdx < 0 || p.ULIdx >= len(b) {
		return nil, valueErrorf("ulidx", "%d is not a boundary vertex index", p.ULIdx)
	}
	Log.WithFields(logrus.Fields{
		"ny":     ny,
		"nx":     nx,
		"points": len(b),
	}).Info("gridtools: generating grid")
	x, y, err := gen.Generate(b, ny, nx, p)
	if err != nil {
		return nil, fmt.Errorf("gridtools: generating grid: %w", err)
	}
	if x == nil || y == nil {
		return nil, fmt.Errorf("gridtools: generating grid: generator returned no nodes")
	}
	if r, c := x.Dims(); r != ny || c != nx {
		Log.WithFields(logrus.Fields{
			"want": fmt.Sprintf("%dx%d", ny, nx),
			"got":  fmt.Sprintf("%dx%d", r, c),
		}).Warn("gridtools: generator returned a different shape")
	}
	return NewModelGrid(x, y)
}
