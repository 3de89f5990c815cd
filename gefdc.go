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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Default GEFDC file names and settings.
const (
	GridOutFile    = "grid.out"
	CellInpFile    = "cell.inp"
	ControlFile    = "gefdc.inp"
	GridextFile    = "gridext.inp"
	DepdatFile     = "depdat.inp"
	DefaultMaxCols = 125
	DefaultShift   = 2
)

const cellInpTitle = "C -- cell.inp for EFDC model by gridtools"

// writeFile creates path, hands a buffered writer to fn, and flushes and
// closes the file whether or not fn succeeds. A failed write may leave a
// partial file behind.
func writeFile(path string, fn func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("gridtools: creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("gridtools: closing %s: %w", path, cerr)
		}
	}()
	w := bufio.NewWriter(f)
	if err = fn(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("gridtools: writing %s: %w", path, err)
	}
	return nil
}

func outputPath(dir, filename, def string) string {
	if filename == "" {
		filename = def
	}
	return filepath.Join(dir, filename)
}

// WriteGridOut writes node coordinates in the grid.out format: a
// "## I x J" header, then one fixed-width "x y" line per node in
// row-major order.
func WriteGridOut(w io.Writer, x, y *mat.Dense) error {
	r, c := x.Dims()
	if yr, yc := y.Dims(); yr != r || yc != c {
		return valueErrorf("nodes", "x (%d, %d) and y (%d, %d) must have the same shape", r, c, yr, yc)
	}
	if _, err := fmt.Fprintf(w, "## %d x %d\n", c, r); err != nil {
		return err
	}
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			if _, err := fmt.Fprintf(w, "%15.3f %15.3f\n", x.At(j, i), y.At(j, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteCellInp writes cell codes in the cell.inp format. With flip, the
// rows are written bottom-up as GEFDC expects. Row labels count down from
// the number of rows on the first line either way. Rows wider than maxcols
// are split into column bands of at most maxcols codes; every row of one
// band is written before the next band starts. Only the first band
// carries the column-number header and row labels.
func WriteCellInp(w io.Writer, cells [][]int, maxcols int, flip bool) error {
	if maxcols < 1 {
		return valueErrorf("maxcols", "must be positive, got %d", maxcols)
	}
	if len(cells) == 0 {
		return valueErrorf("cells", "no rows")
	}
	nrows, ncols := len(cells), len(cells[0])
	rows := make([]string, nrows)
	labels := make([]int, nrows)
	for j, row := range cells {
		if len(row) != ncols {
			return valueErrorf("cells", "row %d has %d columns, want %d", j, len(row), ncols)
		}
		b := make([]byte, ncols)
		for i, v := range row {
			if v < 0 || v > 9 {
				return valueErrorf("cells", "code %d at (%d, %d) is not a single digit", v, j, i)
			}
			b[i] = byte('0' + v)
		}
		n := j
		if flip {
			n = nrows - 1 - j
		}
		rows[n] = string(b)
		labels[n] = nrows - n
	}

	bw := &errWriter{w: w}
	bw.printf("%s\n", cellInpTitle)
	width := ncols
	if width > maxcols {
		width = maxcols
	}
	for _, div := range []int{100, 10, 1} {
		var h strings.Builder
		for c := 1; c <= width; c++ {
			h.WriteByte(byte('0' + (c/div)%10))
		}
		bw.printf("C    %s\n", h.String())
	}
	for lo := 0; lo < ncols; lo += maxcols {
		hi := lo + maxcols
		if hi > ncols {
			hi = ncols
		}
		for n, row := range rows {
			if lo == 0 {
				bw.printf("%3d  %s\n", labels[n], row[lo:hi])
			} else {
				bw.printf("     %s\n", row[lo:hi])
			}
		}
	}
	return bw.err
}

// gefdcTemplate is the control file for the GEFDC grid preprocessor. The
// verbs are, in order: title, IMAX, JMAX, IMAX, JMAX, NDEPDAT.
const gefdcTemplate = `C1  TITLE
C1  (LIMITED TO 80 CHARACTERS)
    '%s'
C2  INTEGER INPUT
C2  NTYPE   NBPP    IMIN    IMAX    JMIN    JMAX    IC   JC
    0       0       1       %d       1       %d       %d    %d
C3  GRAPHICS GRID INFORMATION
C3  ISGG    IGM     JGM     DXCG    DYCG    NWTGG
    0       0       0       0.      0.      1
C4  CARTESIAN AND GRAPHICS GRID COORDINATE DATA
C4  CDLON1  CDLON2  CDLON3  CDLAT1  CDLAT2  CDLAT3
    0.      0.      0.      0.      0.      0.
C5  INTEGER INPUT
C5  ITRXM   ITRHM   ITRKM   ITRGM   NDEPSM  NDEPSMF DEPMIN  DDATADJ
    200     200     200     200     4000    0       0       0
C6  REAL INPUT
C6  RPX     RPK     RPH     RSQXM   RSQKM   RSQKIM  RSQHM   RSQHIM  RSQHJM
    1.8     1.8     1.8     1.E-12  1.E-12  1.E-12  1.E-12  1.E-12  1.E-12
C7  COORDINATE SHIFT PARAMETERS
C7  XSHIFT  YSHIFT  HSCALE  RKJDKI  ANGORO
    0.      0.      1.      1.      5.0
C8  INTERPOLATION SWITCHES
C8  ISIRKI  JSIRKI  ISIHIHJ JSIHIHJ
    1       0       0       0
C9  NTYPE = 7 SPECIFIED INPUT
C9  IB      IE      JB      JE      N7RLX   NXYIT   ITN7M   IJSMD   ISMD    JSMD    RP7     SERRMAX
C10 NTYPE = 7 SPECIFIED INPUT
C10 X       Y       IN ORDER    (IB,JB) (IE,JB) (IE,JE) (IB,JE)
C11 DEPTH INTERPOLATION SWITCHES
C11 ISIDEP  NDEPDAT CDEP    RADM    ISIDPTYP    SURFELV ISVEG   NVEGDAT NVEGTYP
    1       %d       2       0.5     1           0.0     0       0       0
C12 LAST BOUNDARY POINT INFORMATION
C12 ILT JLT X(ILT,JLT)  Y(ILT,JLT)
    0   0   0.0         0.0
C13 I   J   X(I,J)      Y(I,J)
`

// ControlFileText renders the gefdc.inp control file. The title is
// truncated to 80 characters.
func ControlFileText(title string, maxI, maxJ, bathyRows int) string {
	if len(title) > 80 {
		title = title[:80]
	}
	return fmt.Sprintf(gefdcTemplate, title, maxI, maxJ, maxI, maxJ, bathyRows)
}

// WriteGridext writes one "i j x y" line per record.
func WriteGridext(w io.Writer, recs []NodeRecord) error {
	bw := &errWriter{w: w}
	for _, r := range recs {
		bw.printf("%4d %4d %15.3f %15.3f\n", r.I, r.J, r.X, r.Y)
	}
	return bw.err
}

// BathyPoint is one point of bathymetry (or elevation) data.
type BathyPoint struct {
	X, Y, Z float64
}

// WriteDepdat writes one "x y z" line per bathymetry point in the
// depdat.inp format.
func WriteDepdat(w io.Writer, bathy []BathyPoint) error {
	bw := &errWriter{w: w}
	for _, p := range bathy {
		bw.printf("%15.3f %15.3f %15.3f\n", p.X, p.Y, p.Z)
	}
	return bw.err
}

// errWriter stops writing after the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

// WriteGEFDCControlFile writes the gefdc.inp control file into outputDir
// and returns its contents. An empty filename selects ControlFile.
func (g *ModelGrid) WriteGEFDCControlFile(outputDir, filename string, bathyRows int, title string) (string, error) {
	path := outputPath(outputDir, filename, ControlFile)
	text := ControlFileText(title, g.INodes()+1, g.JNodes()+1, bathyRows)
	err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
	if err != nil {
		return "", err
	}
	Log.WithFields(logrus.Fields{"file": path, "bathyrows": bathyRows}).Debug("gridtools: wrote control file")
	return text, nil
}

// WriteGEFDCCellFile encodes the grid's cells and writes them to
// cell.inp (or filename) in outputDir, bottom row first. maxcols of zero
// selects DefaultMaxCols. When triangles is set, ErrNotImplemented is
// returned and no file is created.
func (g *ModelGrid) WriteGEFDCCellFile(outputDir, filename string, triangles bool, maxcols int) ([][]int, error) {
	cells, err := g.CellCodes(triangles)
	if err != nil {
		return nil, err
	}
	if maxcols == 0 {
		maxcols = DefaultMaxCols
	}
	path := outputPath(outputDir, filename, CellInpFile)
	err = writeFile(path, func(w io.Writer) error {
		return WriteCellInp(w, cells, maxcols, true)
	})
	if err != nil {
		return nil, err
	}
	Log.WithFields(logrus.Fields{
		"file": path,
		"rows": g.JCells(),
		"cols": g.ICells(),
	}).Debug("gridtools: wrote cell file")
	return cells, nil
}

// WriteGEFDCGridFile writes the node coordinates to grid.out (or
// filename) in outputDir.
func (g *ModelGrid) WriteGEFDCGridFile(outputDir, filename string) error {
	path := outputPath(outputDir, filename, GridOutFile)
	if err := writeFile(path, func(w io.Writer) error {
		return WriteGridOut(w, g.XN(), g.YN())
	}); err != nil {
		return err
	}
	Log.WithFields(logrus.Fields{"file": path}).Debug("gridtools: wrote grid file")
	return nil
}

// WriteGEFDCGridextFile writes every node with valid coordinates to
// gridext.inp (or filename) in outputDir, adding shift to both indices.
// It returns the records written.
func (g *ModelGrid) WriteGEFDCGridextFile(outputDir string, shift int, filename string) ([]NodeRecord, error) {
	recs, err := g.Records(Nodes, false)
	if err != nil {
		return nil, err
	}
	recs = DropMissing(recs)
	for k := range recs {
		recs[k].I += shift
		recs[k].J += shift
	}
	path := outputPath(outputDir, filename, GridextFile)
	if err := writeFile(path, func(w io.Writer) error {
		return WriteGridext(w, recs)
	}); err != nil {
		return nil, err
	}
	Log.WithFields(logrus.Fields{"file": path, "nodes": len(recs)}).Debug("gridtools: wrote gridext file")
	return recs, nil
}

// WriteGEFDCInputFiles writes grid.out, depdat.inp, and gefdc.inp into
// outputDir for a GEFDC preprocessor run.
func (g *ModelGrid) WriteGEFDCInputFiles(bathy []BathyPoint, outputDir, title string) error {
	if err := g.WriteGEFDCGridFile(outputDir, ""); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outputDir, DepdatFile), func(w io.Writer) error {
		return WriteDepdat(w, bathy)
	}); err != nil {
		return err
	}
	_, err := g.WriteGEFDCControlFile(outputDir, "", len(bathy), title)
	return err
}
