package globe

import "github.com/go-gl/mathgl/mgl32"

// SubTexture maps a region of an atlas texture to the full [0,1] UV
// square. Drawables reference sub-textures by identity; TexCoords
// remaps their texture coordinates into the atlas region.
type SubTexture struct {
	// ID is the sub-texture's own identity, the one drawables refer to.
	ID Ident

	// TexID is the identity of the atlas texture holding the region.
	TexID Ident

	// Transform maps normalized [0,1] coordinates into the region.
	Transform mgl32.Mat3
}

// NewSubTexture creates a sub-texture for the pixel rectangle
// (x, y, w, h) within an atlas of atlasWidth x atlasHeight pixels.
func NewSubTexture(texID Ident, x, y, w, h, atlasWidth, atlasHeight int) SubTexture {
	sx := float32(w) / float32(atlasWidth)
	sy := float32(h) / float32(atlasHeight)
	tx := float32(x) / float32(atlasWidth)
	ty := float32(y) / float32(atlasHeight)
	return SubTexture{
		ID:        NewIdent(),
		TexID:     texID,
		Transform: mgl32.Translate2D(tx, ty).Mul3(mgl32.Scale2D(sx, sy)),
	}
}

// identMat3 is the no-remapping transform.
func identMat3() mgl32.Mat3 { return mgl32.Ident3() }

// TexCoords applies the transform to UV coordinates in place.
func (s SubTexture) TexCoords(coords []mgl32.Vec2) {
	for i, c := range coords {
		v := s.Transform.Mul3x1(mgl32.Vec3{c.X(), c.Y(), 1})
		coords[i] = mgl32.Vec2{v.X(), v.Y()}
	}
}
