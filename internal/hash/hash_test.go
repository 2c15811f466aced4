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

package hash

import (
	"math"
	"testing"
)

type grid struct {
	X, Y [][]float64
	Mask [][]bool
}

func TestOf(t *testing.T) {
	a := &grid{X: [][]float64{{1, 2}}, Y: [][]float64{{3, math.NaN()}}}
	b := &grid{X: [][]float64{{1, 2}}, Y: [][]float64{{3, math.NaN()}}}
	c := &grid{X: [][]float64{{1, 2}}, Y: [][]float64{{3, 4}}}
	ha, hb, hc := Of(a), Of(b), Of(c)
	if ha != hb {
		t.Errorf("equal values have different fingerprints: %s != %s", ha, hb)
	}
	if ha == hc {
		t.Errorf("different values have the same fingerprint %s", ha)
	}
	if len(ha) != 32 {
		t.Errorf("want 32 hex digits but have %q", ha)
	}
	b.Mask = [][]bool{{true, false}}
	if Of(b) == ha {
		t.Error("adding a mask should change the fingerprint")
	}
}

func TestOfUnexported(t *testing.T) {
	// gob can't encode a struct without exported fields.
	type point struct{ x, y float64 }
	a, b, c := Of(point{1, 2}), Of(point{1, 2}), Of(point{2, 1})
	if a != b {
		t.Errorf("equal values have different fingerprints: %s != %s", a, b)
	}
	if a == c {
		t.Errorf("different values have the same fingerprint %s", a)
	}
}
