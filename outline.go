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
	"runtime"
	"sync"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
)

// Outline is the boundary of one connected piece of a mask.
type Outline struct {
	// Component is the index of the connected group of true mask cells
	// that this outline was traced from. Components are numbered in the
	// row-major order of their first cell. After buffering, one
	// component may produce several outlines, or one empty outline if
	// it was eroded away.
	Component int

	// Polygon holds closed rings. The first ring is the exterior and runs
	// counter-clockwise; any other rings are holes and run clockwise.
	// Each ring starts at its lowest (then leftmost) vertex.
	geom.Polygon
}

// Empty reports whether the outline has no area, which happens when a
// negative buffer erodes a component completely.
func (o Outline) Empty() bool { return len(o.Polygon) == 0 }

// Area returns the area enclosed by the outline, with holes subtracted.
func (o Outline) Area() float64 {
	a := make([]float64, len(o.Polygon))
	for i, r := range o.Polygon {
		a[i] = signedArea([]geom.Point(r))
	}
	return floats.Sum(a)
}

// MaskToOutline traces the outlines of the regions where mask is true.
// Each true cell is taken to cover the quadrilateral whose corners lie
// halfway between its center and its neighbors' centers (see Grid), and
// the cells of each 4-connected region are merged with a polygon union.
//
// If buffer is positive, each outline is grown outward by that distance;
// if it is negative, each outline is shrunk inward. The offset uses
// mitred corners and is computed in the planar units of g.
func MaskToOutline(g Grid, mask [][]bool, buffer float64) ([]Outline, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	if mask == nil {
		r, c := g.Shape()
		return nil, &ShapeMismatchError{Name: "mask", Want: [2]int{r, c}}
	}
	if err := g.checkMask(mask); err != nil {
		return nil, err
	}
	if math.IsNaN(buffer) || math.IsInf(buffer, 0) {
		return nil, fmt.Errorf("cdt: outline buffer distance must be finite; got %g", buffer)
	}
	corners, err := cellCorners(g)
	if err != nil {
		return nil, err
	}
	eps := tolerance(corners)
	comps := components(mask)

	results := make([][]Outline, len(comps))
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for p := 0; p < nprocs; p++ {
		go func(p int) {
			defer wg.Done()
			for i := p; i < len(comps); i += nprocs {
				results[i] = componentOutline(i, comps[i], corners, buffer, eps)
			}
		}(p)
	}
	wg.Wait()

	var o []Outline
	for _, r := range results {
		o = append(o, r...)
	}
	return o, nil
}

// componentOutline merges the cells of one component and applies the
// buffer.
func componentOutline(id int, comp []cell, corners [][]geom.Point, buffer, eps float64) []Outline {
	pieces := nestRings(cleanRings(unionAll(runPolygons(comp, corners)), eps))
	if buffer != 0 {
		var all geom.Polygon
		for _, p := range pieces {
			all = append(all, p...)
		}
		pieces = nestRings(cleanRings(bufferPolygon(all, buffer), eps))
	}
	if len(pieces) == 0 {
		return []Outline{{Component: id}}
	}
	o := make([]Outline, len(pieces))
	for i, p := range pieces {
		o[i] = Outline{Component: id, Polygon: p}
	}
	return o
}

// unionAll merges polys by pairwise union, halving the list each round.
func unionAll(polys []geom.Polygon) geom.Polygon {
	switch len(polys) {
	case 0:
		return nil
	case 1:
		return polys[0]
	}
	m := len(polys) / 2
	return unionAll(polys[:m]).Union(unionAll(polys[m:]))
}

// tolerance returns a length below which differences between points are
// treated as rounding error.
func tolerance(corners [][]geom.Point) float64 {
	b := geom.NewBounds()
	for _, row := range corners {
		for _, p := range row {
			b.Extend(p.Bounds())
		}
	}
	return 1e-9 * math.Max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
}

// Flatten returns the vertices of every ring of every outline as x and y
// sequences. Rings are closed and consecutive rings are separated by a
// NaN in both x and y. Empty outlines contribute nothing.
func Flatten(outlines []Outline) (x, y []float64) {
	for _, o := range outlines {
		for _, r := range o.Polygon {
			if len(x) > 0 {
				x = append(x, math.NaN())
				y = append(y, math.NaN())
			}
			for _, p := range r {
				x = append(x, p.X)
				y = append(y, p.Y)
			}
		}
	}
	return x, y
}
