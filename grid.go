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
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ModelGrid is a structured curvilinear grid: two (J, I) arrays of node
// coordinates and a (J-1, I-1) mask of excluded cells.
type ModelGrid struct {
	nodesX, nodesY *PointSet
	cellMask       *Mask

	// Template describes the attribute schema and projection used when
	// the grid is exported to a shapefile. It may be nil.
	Template *Template
}

// NewModelGrid creates a grid from x and y node coordinates, which must
// have the same shape and at least two rows and two columns. The grid
// takes ownership of both arrays. No cells are masked.
func NewModelGrid(nodesX, nodesY *mat.Dense) (*ModelGrid, error) {
	xr, xc := nodesX.Dims()
	yr, yc := nodesY.Dims()
	if xr != yr || xc != yc {
		return nil, valueErrorf("nodes", "x (%d, %d) and y (%d, %d) must have the same shape", xr, xc, yr, yc)
	}
	if xr < 2 || xc < 2 {
		return nil, valueErrorf("nodes", "need at least 2x2 nodes, got (%d, %d)", xr, xc)
	}
	return &ModelGrid{
		nodesX:   NewPointSet(nodesX),
		nodesY:   NewPointSet(nodesY),
		cellMask: NewMask(xr-1, xc-1),
	}, nil
}

// NodesX returns the x node coordinates.
func (g *ModelGrid) NodesX() *PointSet { return g.nodesX }

// NodesY returns the y node coordinates.
func (g *ModelGrid) NodesY() *PointSet { return g.nodesY }

// XN returns the x coordinates of the nodes.
func (g *ModelGrid) XN() *mat.Dense { return g.nodesX.Points() }

// YN returns the y coordinates of the nodes.
func (g *ModelGrid) YN() *mat.Dense { return g.nodesY.Points() }

// XC returns the x coordinates of the cell centers.
func (g *ModelGrid) XC() *mat.Dense { return cellCenters(g.XN()) }

// YC returns the y coordinates of the cell centers.
func (g *ModelGrid) YC() *mat.Dense { return cellCenters(g.YN()) }

// cellCenters averages the four corners of every cell.
func cellCenters(n *mat.Dense) *mat.Dense {
	r, c := n.Dims()
	o := mat.NewDense(r-1, c-1, nil)
	for j := 0; j < r-1; j++ {
		row := o.RawRowView(j)
		lo, hi := n.RawRowView(j), n.RawRowView(j+1)
		floats.Add(row, lo[1:])
		floats.Add(row, lo[:c-1])
		floats.Add(row, hi[1:])
		floats.Add(row, hi[:c-1])
		floats.Scale(0.25, row)
	}
	return o
}

// Shape returns the number of node rows (J) and columns (I).
func (g *ModelGrid) Shape() (rows, cols int) { return g.nodesX.Shape() }

// CellShape returns the number of cell rows and columns.
func (g *ModelGrid) CellShape() (rows, cols int) {
	r, c := g.Shape()
	return r - 1, c - 1
}

// INodes is the number of node columns.
func (g *ModelGrid) INodes() int {
	_, c := g.Shape()
	return c
}

// JNodes is the number of node rows.
func (g *ModelGrid) JNodes() int {
	r, _ := g.Shape()
	return r
}

// ICells is the number of cell columns.
func (g *ModelGrid) ICells() int { return g.INodes() - 1 }

// JCells is the number of cell rows.
func (g *ModelGrid) JCells() int { return g.JNodes() - 1 }

// CellMask returns a copy of the cell mask.
func (g *ModelGrid) CellMask() *Mask { return g.cellMask.Clone() }

// NodeMask returns a mask that is true where the node has valid (non-NaN)
// coordinates.
func (g *ModelGrid) NodeMask() *Mask { return validNodes(g.XN(), g.YN()) }

// MaskCells adds the cells marked in m to the cell mask. Cells already
// masked stay masked.
func (g *ModelGrid) MaskCells(m *Mask) error {
	u, err := UnionMasks(g.cellMask, m)
	if err != nil {
		return err
	}
	g.cellMask = u
	return nil
}

// Transform applies fn to both node arrays and keeps the cell mask as it
// is. fn may change node values but not the node shape; a result of a
// different shape is a *ValueError and leaves the grid unchanged. Use
// Transpose, FlipLR or FlipUD to reorder nodes and cells together.
func (g *ModelGrid) Transform(fn Transformer) error {
	x, y := fn(g.XN()), fn(g.YN())
	r, c := g.Shape()
	for _, d := range []*mat.Dense{x, y} {
		if dr, dc := d.Dims(); dr != r || dc != c {
			return valueErrorf("transform", "result has shape (%d, %d), want (%d, %d)", dr, dc, r, c)
		}
	}
	g.nodesX, g.nodesY = NewPointSet(x), NewPointSet(y)
	return nil
}

// reorder applies fn to both node arrays and to the cell mask. fn must
// only move entries.
func (g *ModelGrid) reorder(fn Transformer) *ModelGrid {
	g.nodesX.Transform(fn)
	g.nodesY.Transform(fn)
	g.cellMask = maskFromDense(fn(g.cellMask.dense()))
	return g
}

// Transpose swaps the I and J axes of the grid.
func (g *ModelGrid) Transpose() *ModelGrid { return g.reorder(Transpose) }

// FlipLR reverses the columns of the grid.
func (g *ModelGrid) FlipLR() *ModelGrid { return g.reorder(FlipLR) }

// FlipUD reverses the rows of the grid.
func (g *ModelGrid) FlipUD() *ModelGrid { return g.reorder(FlipUD) }

// CoordFunc maps one node coordinate to another.
type CoordFunc func(x, y float64) (float64, float64, error)

// TransformCoords applies fn to every node. NaN nodes are left alone.
// The grid is unchanged if fn returns an error.
func (g *ModelGrid) TransformCoords(fn CoordFunc) error {
	x, y := mat.DenseCopyOf(g.XN()), mat.DenseCopyOf(g.YN())
	valid := g.NodeMask()
	r, c := x.Dims()
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			if !valid.At(j, i) {
				continue
			}
			xx, yy, err := fn(x.At(j, i), y.At(j, i))
			if err != nil {
				return err
			}
			x.Set(j, i, xx)
			y.Set(j, i, yy)
		}
	}
	g.nodesX, g.nodesY = NewPointSet(x), NewPointSet(y)
	return nil
}

// Merge stitches other onto the grid; see PointSet.Merge for how, where
// and shift. The cell masks of both grids are carried into the merged
// grid, and the new cells along the seam are unmasked.
func (g *ModelGrid) Merge(other *ModelGrid, how Direction, where Side, shift int) error {
	if err := checkOverlap(g.XN(), other.XN(), how, shift); err != nil {
		return err
	}
	m, err := paddedStack(g.cellMask.dense(), other.cellMask.dense(), how, where, shift, 0, 1)
	if err != nil {
		return err
	}
	if err := g.nodesX.Merge(other.nodesX, how, where, shift); err != nil {
		return err
	}
	if err := g.nodesY.Merge(other.nodesY, how, where, shift); err != nil {
		return err
	}
	g.cellMask = maskFromDense(m)
	return nil
}

// MaskPolicy selects how a polygon decides which cells to mask.
type MaskPolicy int

const (
	// CellCenterPolicy masks cells whose centers fall inside the polygon.
	CellCenterPolicy MaskPolicy = iota
	// NodeCoveragePolicy masks cells with fewer than MinNodes of their
	// four corner nodes inside the polygon.
	NodeCoveragePolicy
)

// DefaultMinNodes is the node threshold used by NodeCoveragePolicy when
// MaskOptions.MinNodes is zero.
const DefaultMinNodes = 3

// MaskOptions configures polygon masking.
type MaskOptions struct {
	Policy MaskPolicy

	// Invert negates the mask computed by the policy.
	Invert bool

	// MinNodes is the number of corner nodes (1 to 4) that must be inside
	// the polygon for NodeCoveragePolicy to keep a cell.
	MinNodes int
}

// PolygonMask computes, without changing the grid, the cell mask that
// polyverts (an N×2 list of vertices, N ≥ 3) implies under opts.
func (g *ModelGrid) PolygonMask(polyverts [][]float64, opts MaskOptions) (*Mask, error) {
	poly, err := polygonFromVerts(polyverts)
	if err != nil {
		return nil, err
	}
	cr, cc := g.CellShape()
	var m *Mask
	switch opts.Policy {
	case CellCenterPolicy:
		pts, err := g.CoordPairs(Cells, false)
		if err != nil {
			return nil, err
		}
		m = &Mask{rows: cr, cols: cc, data: PointsInPolygon(pts, poly)}
	case NodeCoveragePolicy:
		minNodes := opts.MinNodes
		if minNodes == 0 {
			minNodes = DefaultMinNodes
		}
		if minNodes < 1 || minNodes > 4 {
			return nil, valueErrorf("min_nodes", "must be between 1 and 4, got %d", minNodes)
		}
		pts, err := g.CoordPairs(Nodes, false)
		if err != nil {
			return nil, err
		}
		_, nc := g.Shape()
		in := PointsInPolygon(pts, poly)
		m = NewMask(cr, cc)
		for j := 0; j < cr; j++ {
			for i := 0; i < cc; i++ {
				var n int
				for _, k := range []int{j*nc + i, j*nc + i + 1, (j+1)*nc + i, (j+1)*nc + i + 1} {
					if in[k] {
						n++
					}
				}
				m.Set(j, i, n < minNodes)
			}
		}
	default:
		return nil, valueErrorf("policy", "unknown mask policy %d", opts.Policy)
	}
	if opts.Invert {
		m = m.Invert()
	}
	return m, nil
}

// MaskCellsWithPolygon computes PolygonMask and adds it to the grid's
// cell mask.
func (g *ModelGrid) MaskCellsWithPolygon(polyverts [][]float64, opts MaskOptions) error {
	m, err := g.PolygonMask(polyverts, opts)
	if err != nil {
		return err
	}
	return g.MaskCells(m)
}
