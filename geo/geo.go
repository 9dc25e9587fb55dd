// Package geo provides the small geometric vocabulary shared by the scene
// core and the cull index: 2D bounding rectangles over the map's local
// coordinate space and the coordinate-system contract that maps local
// coordinates into display space.
package geo

import "github.com/go-gl/mathgl/mgl64"

// CoordSystem converts between a map's local coordinate space and the
// display space the renderer draws in. Implementations must be stateless
// or otherwise safe for concurrent use; the cull index holds one for the
// lifetime of the scene.
type CoordSystem interface {
	// LocalToDisplay converts a point in local coordinates to display space.
	LocalToDisplay(pt mgl64.Vec3) mgl64.Vec3

	// DisplayToLocal converts a point in display space back to local
	// coordinates.
	DisplayToLocal(pt mgl64.Vec3) mgl64.Vec3

	// Bounds returns the valid extent of the local coordinate space.
	Bounds() Mbr
}

// Flat is the identity coordinate system: local and display space coincide.
// It serves flat maps and is the default for tests.
type Flat struct {
	// Extent is the valid local coordinate range.
	Extent Mbr
}

// LocalToDisplay returns pt unchanged.
func (f Flat) LocalToDisplay(pt mgl64.Vec3) mgl64.Vec3 { return pt }

// DisplayToLocal returns pt unchanged.
func (f Flat) DisplayToLocal(pt mgl64.Vec3) mgl64.Vec3 { return pt }

// Bounds returns the configured extent.
func (f Flat) Bounds() Mbr { return f.Extent }

// Ensure Flat implements CoordSystem.
var _ CoordSystem = Flat{}
