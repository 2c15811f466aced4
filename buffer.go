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

// mitreLimit is the longest a mitred corner may reach from its vertex,
// as a multiple of the buffer distance. Sharper corners are bevelled.
const mitreLimit = 4

// bufferPolygon offsets the boundary of p by d: outward if d > 0 and
// inward if d < 0. The offset band is the union of a rectangle of
// half-width |d| along each boundary edge, measured along the edge's own
// normal, and a mitred corner piece on both sides of each vertex, so
// every edge moves by exactly |d| whatever its direction.
// Points of p within |d| of its boundary are removed when eroding, and
// points outside p within |d| of it are added when dilating.
func bufferPolygon(p geom.Polygon, d float64) geom.Polygon {
	if d == 0 || len(p) == 0 {
		return p
	}
	e := math.Abs(d)
	var sweeps []geom.Polygon
	for _, r := range p {
		r := []geom.Point(r)
		n := len(r)
		if n > 1 && r[0] == r[n-1] {
			n--
		}
		for i := 0; i < n; i++ {
			prev, v, next := r[(i+n-1)%n], r[i], r[(i+1)%n]
			if s := sweepSegment(v, next, e); s != nil {
				sweeps = append(sweeps, s)
			}
			sweeps = append(sweeps, cornerPieces(prev, v, next, e)...)
		}
	}
	band := unionAll(sweeps)
	if d > 0 {
		return p.Union(band)
	}
	return p.Difference(band)
}

// unitNormal returns the left-hand unit normal of the segment from a to
// b, and false if the segment has no length.
func unitNormal(a, b geom.Point) (geom.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return geom.Point{}, false
	}
	return geom.Point{X: -dy / l, Y: dx / l}, true
}

// sweepSegment returns the rectangle covering all points whose
// perpendicular distance to the segment from a to b is at most e.
func sweepSegment(a, b geom.Point, e float64) geom.Polygon {
	n, ok := unitNormal(a, b)
	if !ok {
		return nil
	}
	return hullPolygon([]geom.Point{
		{X: a.X + e*n.X, Y: a.Y + e*n.Y},
		{X: b.X + e*n.X, Y: b.Y + e*n.Y},
		{X: b.X - e*n.X, Y: b.Y - e*n.Y},
		{X: a.X - e*n.X, Y: a.Y - e*n.Y},
	})
}

// cornerPieces returns the mitred wedges that fill the gaps between the
// rectangles of the edges prev-v and v-next, one on each side of v.
func cornerPieces(prev, v, next geom.Point, e float64) []geom.Polygon {
	n1, ok1 := unitNormal(prev, v)
	n2, ok2 := unitNormal(v, next)
	if !ok1 || !ok2 {
		return nil
	}
	dot := 1 + n1.X*n2.X + n1.Y*n2.Y
	var o []geom.Polygon
	for _, s := range [2]float64{e, -e} {
		pts := []geom.Point{
			v,
			{X: v.X + s*n1.X, Y: v.Y + s*n1.Y},
			{X: v.X + s*n2.X, Y: v.Y + s*n2.Y},
		}
		// The mitre point is where the two offset edges meet; its
		// distance from v is e/cos(θ/2) for a turn of θ.
		if 2/dot <= mitreLimit*mitreLimit {
			pts = append(pts, geom.Point{
				X: v.X + s*(n1.X+n2.X)/dot,
				Y: v.Y + s*(n1.Y+n2.Y)/dot,
			})
		}
		if h := hullPolygon(pts); h != nil {
			o = append(o, h)
		}
	}
	return o
}

// hullPolygon returns the convex hull of pts as a closed polygon, or nil
// if the points are collinear.
func hullPolygon(pts []geom.Point) geom.Polygon {
	h := convexHull(pts)
	if len(h) < 3 || signedArea(h) <= 0 {
		return nil
	}
	return geom.Polygon{closeRing(h)}
}

// convexHull returns the counter-clockwise convex hull of pts using
// Andrew's monotone chain algorithm. pts is reordered.
func convexHull(pts []geom.Point) []geom.Point {
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].X < pts[j].X || pts[i].X == pts[j].X && pts[i].Y < pts[j].Y
	})
	cross := func(o, a, b geom.Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	hull := make([]geom.Point, 0, 2*len(pts))
	for _, p := range pts { // lower
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- { // upper
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
