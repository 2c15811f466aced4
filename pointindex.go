/*
Copyright © 2026 the CDT authors.
This file is part of CDT.

CDT is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CDT is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CDT.  If not, see <http://www.gnu.org/licenses/>.
*/

package cdt

import (
	"math"
	"runtime"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// gridPoint is a grid cell center stored in the spatial index.
type gridPoint struct {
	geom.Point
	row, col int
	linear   int // row-major index
}

// PointIndex holds the valid cells of a grid in a spatial index so that
// many nearest-cell queries can be answered without scanning the
// whole grid each time. Its results are identical to those of Near2.
type PointIndex struct {
	tree   *rtree.Rtree
	bounds *geom.Bounds
	n      int // total number of cells
	valid  int // number of indexed cells
	step   float64
}

// NewPointIndex creates an index of the cells of g where mask is true
// (or all cells, if mask is nil). Cells with NaN coordinates are left out.
func NewPointIndex(g Grid, mask [][]bool) (*PointIndex, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	if err := g.checkMask(mask); err != nil {
		return nil, err
	}
	idx := &PointIndex{
		tree:   rtree.NewTree(25, 50),
		bounds: geom.NewBounds(),
	}
	_, cols := g.Shape()
	for i, xrow := range g.X {
		for j, x := range xrow {
			idx.n++
			y := g.Y[i][j]
			if mask != nil && !mask[i][j] || math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			p := &gridPoint{Point: geom.Point{X: x, Y: y}, row: i, col: j, linear: i*cols + j}
			idx.tree.Insert(p)
			idx.bounds.Extend(p.Bounds())
			idx.valid++
		}
	}
	if idx.valid > 0 {
		w := idx.bounds.Max.X - idx.bounds.Min.X
		h := idx.bounds.Max.Y - idx.bounds.Min.Y
		idx.step = math.Max(w, h) / math.Sqrt(float64(idx.valid))
	}
	if idx.step == 0 || math.IsInf(idx.step, 0) || math.IsNaN(idx.step) {
		idx.step = 1
	}
	return idx, nil
}

// Len returns the number of cells in the index.
func (idx *PointIndex) Len() int { return idx.valid }

// Nearest returns the row, column and distance of the indexed cell
// closest to (qx, qy). Ties go to the lowest row-major index.
func (idx *PointIndex) Nearest(qx, qy float64) (row, col int, dist float64, err error) {
	if idx.valid == 0 || math.IsNaN(qx) || math.IsNaN(qy) {
		return -1, -1, math.NaN(), &NoValidCellError{N: idx.n}
	}
	q := geom.Point{X: qx, Y: qy}

	// Grow a square search box around q until the best candidate found
	// is closer than the box half-width, after which no point outside
	// the box can be closer.
	r := idx.step + boundsDist(q, idx.bounds)
	for {
		var box *geom.Bounds
		var covers bool
		if math.IsInf(r, 0) || math.IsNaN(r) {
			box, covers = idx.bounds, true
		} else {
			box = rtree.ToRect(q, r)
			covers = box.Min.X <= idx.bounds.Min.X && box.Min.Y <= idx.bounds.Min.Y &&
				box.Max.X >= idx.bounds.Max.X && box.Max.Y >= idx.bounds.Max.Y
		}
		var best *gridPoint
		bestD2 := math.Inf(1)
		for _, gI := range idx.tree.SearchIntersect(box) {
			p := gI.(*gridPoint)
			d2 := dist2(p.X, p.Y, qx, qy)
			if best == nil || d2 < bestD2 || d2 == bestD2 && p.linear < best.linear {
				best, bestD2 = p, d2
			}
		}
		if best != nil && (bestD2 < r*r || covers) {
			return best.row, best.col, math.Sqrt(bestD2), nil
		}
		r *= 2
	}
}

// NearestMany answers one Nearest query for each (qx[i], qy[i]) pair,
// spreading the work across all available processors. Results are
// returned in query order. If any query fails the first error (by
// query position) is returned.
func (idx *PointIndex) NearestMany(qx, qy []float64) (rows, cols []int, dists []float64, err error) {
	if len(qx) != len(qy) {
		return nil, nil, nil, &ShapeMismatchError{Name: "qy", Want: [2]int{1, len(qx)}, Have: [2]int{1, len(qy)}}
	}
	rows = make([]int, len(qx))
	cols = make([]int, len(qx))
	dists = make([]float64, len(qx))
	errs := make([]error, len(qx))

	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for p := 0; p < nprocs; p++ {
		go func(p int) {
			defer wg.Done()
			for i := p; i < len(qx); i += nprocs {
				rows[i], cols[i], dists[i], errs[i] = idx.Nearest(qx[i], qy[i])
			}
		}(p)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return rows, cols, dists, nil
}

// boundsDist returns the Chebyshev distance from p to b, or 0 if p is
// within b.
func boundsDist(p geom.Point, b *geom.Bounds) float64 {
	dx := math.Max(math.Max(b.Min.X-p.X, p.X-b.Max.X), 0)
	dy := math.Max(math.Max(b.Min.Y-p.Y, p.Y-b.Max.Y), 0)
	return math.Max(dx, dy)
}
