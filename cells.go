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
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/geom"
)

// cellCorners returns the (rows+1)×(cols+1) corner points of the cells
// of g. Each corner is the average of the four cell centers around it;
// along the edges of the grid a ring of ghost centers is extrapolated
// linearly from the two nearest rows or columns. For a rectilinear grid
// this places every cell edge halfway between neighboring centers.
func cellCorners(g Grid) ([][]geom.Point, error) {
	r, c := g.Shape()
	if r < 2 || c < 2 {
		return nil, &ShapeMismatchError{Name: "grid", Have: [2]int{r, c},
			Reason: "at least 2 rows and 2 columns are needed to find cell edges"}
	}
	ext := make([][]geom.Point, r+2)
	for i := range ext {
		ext[i] = make([]geom.Point, c+2)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x, y := g.X[i][j], g.Y[i][j]
			if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
				return nil, fmt.Errorf("cdt: grid coordinates must be finite but cell (%d, %d) is (%g, %g)", i, j, x, y)
			}
			ext[i+1][j+1] = geom.Point{X: x, Y: y}
		}
	}
	for j := 1; j <= c; j++ {
		ext[0][j] = extrapolate(ext[1][j], ext[2][j])
		ext[r+1][j] = extrapolate(ext[r][j], ext[r-1][j])
	}
	for i := 0; i < r+2; i++ {
		ext[i][0] = extrapolate(ext[i][1], ext[i][2])
		ext[i][c+1] = extrapolate(ext[i][c], ext[i][c-1])
	}
	corners := make([][]geom.Point, r+1)
	for i := range corners {
		corners[i] = make([]geom.Point, c+1)
		for j := range corners[i] {
			a, b, cc, d := ext[i][j], ext[i][j+1], ext[i+1][j], ext[i+1][j+1]
			corners[i][j] = geom.Point{
				X: (a.X + b.X + cc.X + d.X) / 4,
				Y: (a.Y + b.Y + cc.Y + d.Y) / 4,
			}
		}
	}
	return corners, nil
}

// extrapolate returns the point one step beyond edge, moving away
// from inner.
func extrapolate(edge, inner geom.Point) geom.Point {
	return geom.Point{X: 2*edge.X - inner.X, Y: 2*edge.Y - inner.Y}
}

type cell struct{ row, col int }

// components groups the true cells of mask into 4-connected components.
// Components are returned in the row-major order of their first cell,
// and cells within a component are in row-major order.
func components(mask [][]bool) [][]cell {
	seen := make([][]bool, len(mask))
	for i, row := range mask {
		seen[i] = make([]bool, len(row))
	}
	var o [][]cell
	for i, row := range mask {
		for j, v := range row {
			if !v || seen[i][j] {
				continue
			}
			var comp []cell
			queue := []cell{{i, j}}
			seen[i][j] = true
			for len(queue) > 0 {
				c := queue[0]
				queue = queue[1:]
				comp = append(comp, c)
				for _, n := range [4]cell{{c.row - 1, c.col}, {c.row + 1, c.col}, {c.row, c.col - 1}, {c.row, c.col + 1}} {
					if n.row < 0 || n.row >= len(mask) || n.col < 0 || n.col >= len(mask[n.row]) {
						continue
					}
					if mask[n.row][n.col] && !seen[n.row][n.col] {
						seen[n.row][n.col] = true
						queue = append(queue, n)
					}
				}
			}
			sort.Slice(comp, func(a, b int) bool {
				return comp[a].row < comp[b].row || comp[a].row == comp[b].row && comp[a].col < comp[b].col
			})
			o = append(o, comp)
		}
	}
	return o
}

// runPolygons returns one polygon for each horizontal run of adjacent
// cells in comp, which must be in row-major order. A run's outline is
// its cells' shared lower edge followed by their shared upper edge, so it
// is exactly the union of its cells.
func runPolygons(comp []cell, corners [][]geom.Point) []geom.Polygon {
	var o []geom.Polygon
	for start := 0; start < len(comp); {
		end := start
		for end+1 < len(comp) && comp[end+1].row == comp[start].row && comp[end+1].col == comp[end].col+1 {
			end++
		}
		i, j0, j1 := comp[start].row, comp[start].col, comp[end].col
		ring := make([]geom.Point, 0, 2*(j1-j0+2)+1)
		for j := j0; j <= j1+1; j++ {
			ring = append(ring, corners[i][j])
		}
		for j := j1 + 1; j >= j0; j-- {
			ring = append(ring, corners[i+1][j])
		}
		ring = append(ring, ring[0])
		o = append(o, geom.Polygon{ring})
		start = end + 1
	}
	return o
}
