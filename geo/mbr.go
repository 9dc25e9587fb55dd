package geo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mbr is a 2D axis-aligned minimum bounding rectangle in local coordinates.
//
// An Mbr whose lower-left corner exceeds its upper-right on either axis is
// unset: it covers nothing and AddPoint's first point replaces both
// corners. EmptyMbr returns the canonical unset value; point accumulation
// must start from it, not from the zero value (the zero value is a
// degenerate rectangle at the origin, so accumulation over it keeps the
// origin inside the bounds). Drawables with an invalid Mbr are treated as
// unbounded by the cull index.
type Mbr struct {
	// LL is the lower-left corner.
	LL mgl32.Vec2
	// UR is the upper-right corner.
	UR mgl32.Vec2
}

// NewMbr constructs a valid Mbr from two corner coordinates.
func NewMbr(llx, lly, urx, ury float32) Mbr {
	m := Mbr{LL: mgl32.Vec2{llx, lly}, UR: mgl32.Vec2{urx, ury}}
	return m
}

// EmptyMbr returns the unset rectangle: corners inverted so that the
// first AddPoint replaces them. Use it as the starting value when
// accumulating bounds from points.
func EmptyMbr() Mbr {
	return Mbr{
		LL: mgl32.Vec2{math.MaxFloat32, math.MaxFloat32},
		UR: mgl32.Vec2{-math.MaxFloat32, -math.MaxFloat32},
	}
}

// Valid reports whether the rectangle covers a non-empty area.
// The zero Mbr is not valid.
func (m Mbr) Valid() bool {
	return m.UR[0] > m.LL[0] && m.UR[1] > m.LL[1]
}

// AddPoint grows the rectangle to include pt. Adding the first point to an
// unset Mbr makes it a degenerate rectangle at that point; it becomes
// valid once a second, distinct point is added. A degenerate rectangle is
// extended, never replaced, so bounds anchored at any point — the origin
// included — survive later points.
func (m *Mbr) AddPoint(pt mgl32.Vec2) {
	if m.LL[0] > m.UR[0] || m.LL[1] > m.UR[1] {
		m.LL = pt
		m.UR = pt
		return
	}
	if pt[0] < m.LL[0] {
		m.LL[0] = pt[0]
	}
	if pt[1] < m.LL[1] {
		m.LL[1] = pt[1]
	}
	if pt[0] > m.UR[0] {
		m.UR[0] = pt[0]
	}
	if pt[1] > m.UR[1] {
		m.UR[1] = pt[1]
	}
}

// Union returns the smallest Mbr containing both m and other.
// An invalid operand contributes nothing.
func (m Mbr) Union(other Mbr) Mbr {
	switch {
	case !m.Valid():
		return other
	case !other.Valid():
		return m
	}
	out := m
	out.AddPoint(other.LL)
	out.AddPoint(other.UR)
	return out
}

// Overlaps reports whether m and other share any area. Invalid rectangles
// overlap nothing.
func (m Mbr) Overlaps(other Mbr) bool {
	if !m.Valid() || !other.Valid() {
		return false
	}
	if m.UR[0] < other.LL[0] || m.LL[0] > other.UR[0] {
		return false
	}
	if m.UR[1] < other.LL[1] || m.LL[1] > other.UR[1] {
		return false
	}
	return true
}

// Contains reports whether pt lies inside the rectangle (edges inclusive).
func (m Mbr) Contains(pt mgl32.Vec2) bool {
	return m.Valid() &&
		pt[0] >= m.LL[0] && pt[0] <= m.UR[0] &&
		pt[1] >= m.LL[1] && pt[1] <= m.UR[1]
}

// Inside reports whether m lies entirely within other.
func (m Mbr) Inside(other Mbr) bool {
	return m.Valid() && other.Valid() &&
		m.LL[0] >= other.LL[0] && m.LL[1] >= other.LL[1] &&
		m.UR[0] <= other.UR[0] && m.UR[1] <= other.UR[1]
}

// MidPoint returns the center of the rectangle.
func (m Mbr) MidPoint() mgl32.Vec2 {
	return mgl32.Vec2{(m.LL[0] + m.UR[0]) / 2, (m.LL[1] + m.UR[1]) / 2}
}

// Span returns the width and height of the rectangle.
func (m Mbr) Span() mgl32.Vec2 {
	return mgl32.Vec2{m.UR[0] - m.LL[0], m.UR[1] - m.LL[1]}
}

// String returns a compact representation for diagnostics.
func (m Mbr) String() string {
	return fmt.Sprintf("Mbr[(%g,%g)-(%g,%g)]", m.LL[0], m.LL[1], m.UR[0], m.UR[1])
}
