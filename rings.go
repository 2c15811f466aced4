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
	"sort"

	"github.com/ctessum/geom"
)

// cleanRings removes duplicate and collinear vertices from the rings of
// p and drops rings that enclose no area. The returned rings are open
// (the first vertex is not repeated).
func cleanRings(p geom.Polygon, eps float64) [][]geom.Point {
	var o [][]geom.Point
	for _, r := range p {
		pts := simplifyRing([]geom.Point(r), eps)
		if pts == nil || math.Abs(signedArea(pts)) <= eps*eps*1e9 {
			continue
		}
		o = append(o, pts)
	}
	return o
}

func simplifyRing(r []geom.Point, eps float64) []geom.Point {
	pts := make([]geom.Point, 0, len(r))
	for _, p := range r {
		if len(pts) > 0 && samePoint(p, pts[len(pts)-1], eps) {
			continue
		}
		pts = append(pts, p)
	}
	for len(pts) > 1 && samePoint(pts[0], pts[len(pts)-1], eps) {
		pts = pts[:len(pts)-1]
	}
	for changed := true; changed && len(pts) >= 3; {
		changed = false
		for i := 0; i < len(pts) && len(pts) >= 3; {
			n := len(pts)
			if collinear(pts[(i+n-1)%n], pts[i], pts[(i+1)%n], eps) {
				pts = append(pts[:i], pts[i+1:]...)
				changed = true
				continue
			}
			i++
		}
	}
	if len(pts) < 3 {
		return nil
	}
	return pts
}

func samePoint(a, b geom.Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

// collinear reports whether b lies on the line through a and c, which
// includes spikes where the ring doubles back on itself.
func collinear(a, b, c geom.Point, eps float64) bool {
	cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
	return math.Abs(cross) <= eps*(math.Hypot(b.X-a.X, b.Y-a.Y)+math.Hypot(c.X-b.X, c.Y-b.Y))
}

// signedArea returns the area of an open or closed ring, positive when
// the ring runs counter-clockwise.
func signedArea(r []geom.Point) float64 {
	if len(r) < 3 {
		return 0
	}
	a := 0.
	for i, p := range r {
		q := r[(i+1)%len(r)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// nestRings arranges rings into polygons. A ring inside an even number
// of other rings is an exterior; a ring inside an odd number is a hole
// of the smallest ring containing it. Exteriors are made
// counter-clockwise and holes clockwise, every ring is closed and starts
// at its lowest, then leftmost, vertex, and polygons are sorted by the
// start of their exterior.
func nestRings(rings [][]geom.Point) []geom.Polygon {
	type nested struct {
		pts    []geom.Point
		area   float64
		bounds *geom.Bounds
		parent int
		depth  int
	}
	rs := make([]*nested, len(rings))
	for i, r := range rings {
		b := geom.NewBounds()
		for _, p := range r {
			b.Extend(p.Bounds())
		}
		rs[i] = &nested{pts: r, area: math.Abs(signedArea(r)), bounds: b, parent: -1}
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].area > rs[j].area })

	for k, r := range rs {
		// Rings are sorted by decreasing area, so the first container found
		// searching backwards is the smallest.
		for m := k - 1; m >= 0; m-- {
			if ringContains(rs[m].pts, rs[m].bounds, r.pts, r.bounds) {
				r.parent = m
				r.depth = rs[m].depth + 1
				break
			}
		}
	}

	var o []geom.Polygon
	for m, r := range rs {
		if r.depth%2 != 0 {
			continue
		}
		p := geom.Polygon{canonicalRing(r.pts, true)}
		for _, h := range rs {
			if h.parent == m && h.depth%2 == 1 {
				p = append(p, canonicalRing(h.pts, false))
			}
		}
		o = append(o, p)
	}
	sort.SliceStable(o, func(i, j int) bool {
		a, b := o[i][0][0], o[j][0][0]
		return a.Y < b.Y || a.Y == b.Y && a.X < b.X
	})
	return o
}

// ringContains reports whether ring b lies inside ring a.
func ringContains(a []geom.Point, ab *geom.Bounds, b []geom.Point, bb *geom.Bounds) bool {
	if bb.Min.X < ab.Min.X || bb.Min.Y < ab.Min.Y || bb.Max.X > ab.Max.X || bb.Max.Y > ab.Max.Y {
		return false
	}
	poly := geom.Polygon{closeRing(a)}
	var inside, outside int
	for _, p := range b {
		switch p.Within(poly) {
		case geom.Inside:
			inside++
		case geom.Outside:
			outside++
		}
	}
	if inside+outside == 0 {
		// Every vertex touches a; decide by the middle of the first edge.
		mid := geom.Point{X: (b[0].X + b[1].X) / 2, Y: (b[0].Y + b[1].Y) / 2}
		return mid.Within(poly) != geom.Outside
	}
	return inside > 0 && outside == 0
}

// canonicalRing returns a closed copy of r running counter-clockwise if
// ccw is true and clockwise otherwise, starting at its lowest, then
// leftmost, vertex.
func canonicalRing(r []geom.Point, ccw bool) []geom.Point {
	n := len(r)
	rev := (signedArea(r) > 0) != ccw
	start := 0
	for i, p := range r {
		s := r[start]
		if p.Y < s.Y || p.Y == s.Y && p.X < s.X {
			start = i
		}
	}
	o := make([]geom.Point, n+1)
	for i := 0; i < n; i++ {
		if rev {
			o[i] = r[(start-i+n)%n]
		} else {
			o[i] = r[(start+i)%n]
		}
	}
	o[n] = o[0]
	return o
}

func closeRing(r []geom.Point) []geom.Point {
	o := make([]geom.Point, len(r)+1)
	copy(o, r)
	o[len(r)] = r[0]
	return o
}
