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
	"testing"

	"github.com/ctessum/geom"
)

// unitGrid returns a grid with cell centers on the integers, so that
// cell edges fall on the half-integers.
func unitGrid(rows, cols int) Grid {
	x := make([]float64, cols)
	for j := range x {
		x[j] = float64(j)
	}
	y := make([]float64, rows)
	for i := range y {
		y[i] = float64(i)
	}
	return MeshGrid(x, y)
}

func boolMask(rows, cols int, cells ...[2]int) [][]bool {
	m := make([][]bool, rows)
	for i := range m {
		m[i] = make([]bool, cols)
	}
	for _, c := range cells {
		m[c[0]][c[1]] = true
	}
	return m
}

func rectMask(rows, cols, r0, r1, c0, c1 int) [][]bool {
	m := boolMask(rows, cols)
	for i := r0; i <= r1; i++ {
		for j := c0; j <= c1; j++ {
			m[i][j] = true
		}
	}
	return m
}

func ringBounds(r []geom.Point) *geom.Bounds {
	b := geom.NewBounds()
	for _, p := range r {
		b.Extend(p.Bounds())
	}
	return b
}

func boundsEqual(a, b *geom.Bounds, tol float64) bool {
	return math.Abs(a.Min.X-b.Min.X) < tol && math.Abs(a.Min.Y-b.Min.Y) < tol &&
		math.Abs(a.Max.X-b.Max.X) < tol && math.Abs(a.Max.Y-b.Max.Y) < tol
}

func TestMaskToOutlineRectangle(t *testing.T) {
	g := unitGrid(5, 6)
	o, err := MaskToOutline(g, rectMask(5, 6, 1, 2, 1, 3), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(o) != 1 {
		t.Fatalf("want 1 outline but have %d", len(o))
	}
	if len(o[0].Polygon) != 1 {
		t.Fatalf("want 1 ring but have %d", len(o[0].Polygon))
	}
	r := o[0].Polygon[0]
	if len(r) != 5 {
		t.Errorf("want 5 vertices but have %d: %v", len(r), r)
	}
	if r[0] != r[len(r)-1] {
		t.Errorf("ring is not closed: %v", r)
	}
	want := geom.Point{X: 0.5, Y: 0.5}
	if math.Abs(r[0].X-want.X) > 1e-9 || math.Abs(r[0].Y-want.Y) > 1e-9 {
		t.Errorf("ring should start at %v but starts at %v", want, r[0])
	}
	wantB := &geom.Bounds{Min: geom.Point{X: 0.5, Y: 0.5}, Max: geom.Point{X: 3.5, Y: 2.5}}
	if b := ringBounds(r); !boundsEqual(b, wantB, 1e-9) {
		t.Errorf("want bounds %v but have %v", wantB, b)
	}
	if a := o[0].Area(); math.Abs(a-6) > 1e-9 {
		t.Errorf("want area 6 but have %g", a)
	}
	if o[0].Component != 0 || o[0].Empty() {
		t.Errorf("unexpected outline %+v", o[0])
	}
}

func TestMaskToOutlineBuffer(t *testing.T) {
	g := unitGrid(7, 8)
	mask := rectMask(7, 8, 2, 3, 2, 4)
	for _, test := range []struct {
		buffer float64
		area   float64
		bounds *geom.Bounds
	}{
		{
			buffer: 0.5, area: 12,
			bounds: &geom.Bounds{Min: geom.Point{X: 1, Y: 1}, Max: geom.Point{X: 5, Y: 4}},
		},
		{
			buffer: -0.5, area: 2,
			bounds: &geom.Bounds{Min: geom.Point{X: 2, Y: 2}, Max: geom.Point{X: 4, Y: 3}},
		},
	} {
		o, err := MaskToOutline(g, mask, test.buffer)
		if err != nil {
			t.Fatal(err)
		}
		if len(o) != 1 || o[0].Empty() {
			t.Fatalf("buffer %g: want one outline but have %+v", test.buffer, o)
		}
		if a := o[0].Area(); math.Abs(a-test.area) > 1e-6 {
			t.Errorf("buffer %g: want area %g but have %g", test.buffer, test.area, a)
		}
		if b := ringBounds(o[0].Polygon[0]); !boundsEqual(b, test.bounds, 1e-6) {
			t.Errorf("buffer %g: want bounds %v but have %v", test.buffer, test.bounds, b)
		}
		if a := signedArea([]geom.Point(o[0].Polygon[0])); a <= 0 {
			t.Errorf("buffer %g: exterior should run counter-clockwise", test.buffer)
		}
	}
}

func TestMaskToOutlineErodedAway(t *testing.T) {
	g := unitGrid(7, 8)
	o, err := MaskToOutline(g, rectMask(7, 8, 2, 3, 2, 4), -1.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(o) != 1 {
		t.Fatalf("want 1 outline but have %d", len(o))
	}
	if !o[0].Empty() || o[0].Component != 0 {
		t.Errorf("want an empty outline for component 0 but have %+v", o[0])
	}
	x, y := Flatten(o)
	if len(x) != 0 || len(y) != 0 {
		t.Errorf("empty outlines should flatten to nothing, have %v, %v", x, y)
	}
}

func TestMaskToOutlineErosionThreshold(t *testing.T) {
	// The region is 3 cells wide and 2 high, so it survives erosion by
	// anything less than 1.
	g := unitGrid(7, 8)
	mask := rectMask(7, 8, 2, 3, 2, 4)
	for _, test := range []struct {
		buffer float64
		area   float64
	}{
		{buffer: -0.9, area: 1.2 * 0.2},
		{buffer: -1, area: 0},
	} {
		o, err := MaskToOutline(g, mask, test.buffer)
		if err != nil {
			t.Fatal(err)
		}
		if len(o) != 1 {
			t.Fatalf("buffer %g: want 1 outline but have %d", test.buffer, len(o))
		}
		if test.area == 0 {
			if !o[0].Empty() {
				t.Errorf("buffer %g: want an empty outline but have %v", test.buffer, o[0].Polygon)
			}
			continue
		}
		if a := o[0].Area(); math.Abs(a-test.area) > 1e-6 {
			t.Errorf("buffer %g: want area %g but have %g", test.buffer, test.area, a)
		}
	}
}

// rotatedGrid returns a 3×3 grid with unit spacing turned by 45°, so
// that the middle cell is a unit square standing on one corner.
func rotatedGrid() Grid {
	x := make([][]float64, 3)
	y := make([][]float64, 3)
	for i := range x {
		x[i] = make([]float64, 3)
		y[i] = make([]float64, 3)
		for j := range x[i] {
			u, w := float64(j-1), float64(i-1)
			x[i][j] = (u - w) / math.Sqrt2
			y[i][j] = (u + w) / math.Sqrt2
		}
	}
	return Grid{X: x, Y: y}
}

func TestMaskToOutlineBufferRotated(t *testing.T) {
	g := rotatedGrid()
	mask := boolMask(3, 3, [2]int{1, 1})
	for _, test := range []struct {
		buffer float64
		area   float64 // 0 means eroded away
	}{
		{buffer: 0, area: 1},
		{buffer: 0.1, area: 1.2 * 1.2},
		{buffer: 0.5, area: 2 * 2},
		{buffer: -0.25, area: 0.5 * 0.5},
		{buffer: -0.45, area: 0.1 * 0.1},
		{buffer: -0.5, area: 0},
		{buffer: -0.6, area: 0},
	} {
		o, err := MaskToOutline(g, mask, test.buffer)
		if err != nil {
			t.Fatal(err)
		}
		if len(o) != 1 {
			t.Fatalf("buffer %g: want 1 outline but have %d", test.buffer, len(o))
		}
		if test.area == 0 {
			if !o[0].Empty() {
				t.Errorf("buffer %g: want an empty outline but have %v", test.buffer, o[0].Polygon)
			}
			continue
		}
		if o[0].Empty() {
			t.Fatalf("buffer %g: outline was eroded away", test.buffer)
		}
		if a := o[0].Area(); math.Abs(a-test.area) > 1e-6 {
			t.Errorf("buffer %g: want area %g but have %g", test.buffer, test.area, a)
		}
		if len(o[0].Polygon) != 1 || len(o[0].Polygon[0]) != 5 {
			t.Errorf("buffer %g: want one square ring but have %v", test.buffer, o[0].Polygon)
		}
		// The lowest vertex of the square sits on the y axis, half a
		// diagonal plus the offset below the center.
		want := -(1 + 2*test.buffer) / math.Sqrt2
		if r := o[0].Polygon[0]; math.Abs(r[0].X) > 1e-6 || math.Abs(r[0].Y-want) > 1e-6 {
			t.Errorf("buffer %g: want lowest vertex (0, %g) but have %v", test.buffer, want, r[0])
		}
	}
}

func TestMaskToOutlineComponents(t *testing.T) {
	g := unitGrid(5, 6)
	t.Run("disjoint", func(t *testing.T) {
		o, err := MaskToOutline(g, boolMask(5, 6, [2]int{3, 4}, [2]int{0, 0}), 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(o) != 2 {
			t.Fatalf("want 2 outlines but have %d", len(o))
		}
		for i, want := range []*geom.Bounds{
			{Min: geom.Point{X: -0.5, Y: -0.5}, Max: geom.Point{X: 0.5, Y: 0.5}},
			{Min: geom.Point{X: 3.5, Y: 2.5}, Max: geom.Point{X: 4.5, Y: 3.5}},
		} {
			if o[i].Component != i {
				t.Errorf("outline %d: want component %d but have %d", i, i, o[i].Component)
			}
			if b := ringBounds(o[i].Polygon[0]); !boundsEqual(b, want, 1e-9) {
				t.Errorf("outline %d: want bounds %v but have %v", i, want, b)
			}
		}
	})
	t.Run("diagonal", func(t *testing.T) {
		o, err := MaskToOutline(g, boolMask(5, 6, [2]int{1, 1}, [2]int{2, 2}), 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(o) != 2 {
			t.Errorf("diagonal neighbors are not connected; want 2 outlines but have %d", len(o))
		}
	})
	t.Run("L shape", func(t *testing.T) {
		o, err := MaskToOutline(g, boolMask(5, 6, [2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3}), 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(o) != 1 {
			t.Fatalf("want 1 outline but have %d", len(o))
		}
		if len(o[0].Polygon[0]) != 7 {
			t.Errorf("want 7 vertices but have %v", o[0].Polygon[0])
		}
		if a := o[0].Area(); math.Abs(a-4) > 1e-9 {
			t.Errorf("want area 4 but have %g", a)
		}
	})
}

func TestMaskToOutlineHole(t *testing.T) {
	g := unitGrid(7, 7)
	mask := rectMask(7, 7, 1, 5, 1, 5)
	mask[3][3] = false
	o, err := MaskToOutline(g, mask, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(o) != 1 {
		t.Fatalf("want 1 outline but have %d", len(o))
	}
	if len(o[0].Polygon) != 2 {
		t.Fatalf("want an exterior and a hole but have %d rings", len(o[0].Polygon))
	}
	if a := signedArea([]geom.Point(o[0].Polygon[0])); math.Abs(a-25) > 1e-9 {
		t.Errorf("exterior: want area 25 but have %g", a)
	}
	if a := signedArea([]geom.Point(o[0].Polygon[1])); math.Abs(a+1) > 1e-9 {
		t.Errorf("hole: want area -1 but have %g", a)
	}
	if a := o[0].Area(); math.Abs(a-24) > 1e-9 {
		t.Errorf("want area 24 but have %g", a)
	}
	x, y := Flatten(o)
	nan := 0
	for i := range x {
		if math.IsNaN(x[i]) != math.IsNaN(y[i]) {
			t.Fatalf("separator mismatch at %d", i)
		}
		if math.IsNaN(x[i]) {
			nan++
		}
	}
	if nan != 1 || len(x) != 11 {
		t.Errorf("want 11 values with 1 separator but have %d with %d", len(x), nan)
	}
}

func TestMaskToOutlineIrregular(t *testing.T) {
	g := MeshGrid([]float64{0, 1, 3}, []float64{0, 2, 3})
	o, err := MaskToOutline(g, boolMask(3, 3, [2]int{1, 1}), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(o) != 1 {
		t.Fatalf("want 1 outline but have %d", len(o))
	}
	want := &geom.Bounds{Min: geom.Point{X: 0.5, Y: 1}, Max: geom.Point{X: 2, Y: 2.5}}
	if b := ringBounds(o[0].Polygon[0]); !boundsEqual(b, want, 1e-9) {
		t.Errorf("want bounds %v but have %v", want, b)
	}

	// Edge cells extend as far beyond their centers as towards their
	// inner neighbors.
	o, err = MaskToOutline(g, boolMask(3, 3, [2]int{2, 2}), 0)
	if err != nil {
		t.Fatal(err)
	}
	want = &geom.Bounds{Min: geom.Point{X: 2, Y: 2.5}, Max: geom.Point{X: 4, Y: 3.5}}
	if b := ringBounds(o[0].Polygon[0]); !boundsEqual(b, want, 1e-9) {
		t.Errorf("want bounds %v but have %v", want, b)
	}
}

func TestMaskToOutlineEmptyMask(t *testing.T) {
	o, err := MaskToOutline(unitGrid(3, 3), boolMask(3, 3), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(o) != 0 {
		t.Errorf("want no outlines but have %d", len(o))
	}
}

func TestMaskToOutlineErrors(t *testing.T) {
	g := unitGrid(4, 4)
	for _, test := range []struct {
		name   string
		g      Grid
		mask   [][]bool
		buffer float64
	}{
		{name: "nil mask", g: g},
		{name: "mask shape", g: g, mask: boolMask(3, 4)},
		{name: "single row", g: unitGrid(1, 4), mask: boolMask(1, 4, [2]int{0, 1})},
		{name: "NaN buffer", g: g, mask: boolMask(4, 4, [2]int{1, 1}), buffer: math.NaN()},
		{name: "infinite buffer", g: g, mask: boolMask(4, 4, [2]int{1, 1}), buffer: math.Inf(-1)},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := MaskToOutline(test.g, test.mask, test.buffer); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConvexHull(t *testing.T) {
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 1, Y: 0}}
	h := convexHull(pts)
	if len(h) != 4 {
		t.Fatalf("want 4 hull vertices but have %v", h)
	}
	if a := signedArea(h); a != 4 {
		t.Errorf("want area 4 but have %g", a)
	}
}
