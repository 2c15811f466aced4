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

import "math"

// Near1 returns the index of the element of x that is closest to q and
// the absolute difference between them. When two elements are equally
// close the one with the lower index is returned. NaN elements are
// skipped. A NaN query has no nearest element.
func Near1(x []float64, q float64) (index int, dist float64, err error) {
	if math.IsNaN(q) {
		return -1, math.NaN(), &NoValidCellError{N: len(x)}
	}
	index = -1
	dist = math.Inf(1)
	for i, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if d := math.Abs(v - q); d < dist || index < 0 {
			index, dist = i, d
		}
	}
	if index < 0 {
		return -1, math.NaN(), &NoValidCellError{N: len(x)}
	}
	return index, dist, nil
}

// Near1Many calls Near1 for each of the queries in qs, returning the
// indices and distances in the same order.
func Near1Many(x []float64, qs []float64) (indices []int, dists []float64, err error) {
	if allNaN(x) {
		return nil, nil, &NoValidCellError{N: len(x)}
	}
	indices = make([]int, len(qs))
	dists = make([]float64, len(qs))
	for i, q := range qs {
		indices[i], dists[i], err = Near1(x, q)
		if err != nil {
			return nil, nil, err
		}
	}
	return indices, dists, nil
}

// allNaN reports whether x has no usable values. It is true for an
// empty slice.
func allNaN(x []float64) bool {
	for _, v := range x {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Near2 returns the row and column of the cell of g whose coordinates
// are closest to (qx, qy) in the Euclidean sense, along with the
// distance. Only cells where mask is true are considered; if mask is nil
// all cells are. Ties go to the cell with the lowest row-major index.
//
// Near2 treats X and Y symmetrically, so Near2(g.Swap(), qy, qx, mask)
// returns the same cell as Near2(g, qx, qy, mask).
func Near2(g Grid, qx, qy float64, mask [][]bool) (row, col int, dist float64, err error) {
	if err = g.check(); err != nil {
		return -1, -1, math.NaN(), err
	}
	if err = g.checkMask(mask); err != nil {
		return -1, -1, math.NaN(), err
	}
	row, col = -1, -1
	best := math.Inf(1)
	n := 0
	for i, xrow := range g.X {
		yrow := g.Y[i]
		for j, x := range xrow {
			n++
			if mask != nil && !mask[i][j] {
				continue
			}
			d2 := dist2(x, yrow[j], qx, qy)
			if math.IsNaN(d2) {
				continue
			}
			if d2 < best || row < 0 {
				best, row, col = d2, i, j
			}
		}
	}
	if row < 0 {
		return -1, -1, math.NaN(), &NoValidCellError{N: n}
	}
	return row, col, math.Sqrt(best), nil
}

// dist2 returns the squared distance between (x, y) and (qx, qy).
func dist2(x, y, qx, qy float64) float64 {
	dx, dy := x-qx, y-qy
	return dx*dx + dy*dy
}
