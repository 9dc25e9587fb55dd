package globe

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/globe/geo"
	"github.com/gogpu/globe/gpu"
)

// ErrDrawableEmpty is returned when a drawable has no geometry to upload.
var ErrDrawableEmpty = errors.New("globe: drawable has no geometry")

// Drawable is anything the scene can register, cull, and hand to the
// renderer. Implementations own their GPU-side resources: Setup runs
// once on the render goroutine after registration, Teardown once on
// removal or scene teardown.
type Drawable interface {
	// ID returns the drawable's identity.
	ID() Ident

	// LocalMbr returns the bounding rectangle in the scene's local
	// coordinate system. An invalid Mbr exempts the drawable from
	// spatial culling.
	LocalMbr() geo.Mbr

	// DrawPriority orders drawables within a frame; lower draws first.
	DrawPriority() int

	// Setup creates the drawable's GPU resources. zRes is the depth
	// buffer resolution, used to offset co-planar geometry.
	Setup(mem *gpu.MemoryManager, zRes float32) error

	// Teardown releases the drawable's GPU resources.
	Teardown(mem *gpu.MemoryManager)
}

// Vertex is one interleaved vertex of a BasicDrawable: position,
// texture coordinate, and RGBA color.
type Vertex struct {
	Position mgl32.Vec3
	TexCoord mgl32.Vec2
	Color    [4]uint8
}

// vertexStride is the byte size of one packed Vertex.
const vertexStride = 3*4 + 2*4 + 4

// BasicDrawable is a triangle mesh with an optional texture. It is the
// concrete drawable layers build; everything else implements Drawable
// directly.
type BasicDrawable struct {
	id       Ident
	name     string
	priority int

	localMbr geo.Mbr
	vertices []Vertex
	indices  []uint16

	// TexID is the scene identity of the texture to sample, or
	// EmptyIdent for untextured geometry.
	TexID Ident

	vertexBuf gpu.BufferID
	indexBuf  gpu.BufferID
	setupDone bool
}

// NewBasicDrawable creates an empty named mesh with a fresh identity.
func NewBasicDrawable(name string) *BasicDrawable {
	return &BasicDrawable{id: NewIdent(), name: name, localMbr: geo.EmptyMbr()}
}

// Name returns the debug name given at construction.
func (d *BasicDrawable) Name() string { return d.name }

// ID returns the drawable's identity.
func (d *BasicDrawable) ID() Ident { return d.id }

// LocalMbr returns the bounds accumulated from added vertices.
func (d *BasicDrawable) LocalMbr() geo.Mbr { return d.localMbr }

// DrawPriority returns the draw ordering value.
func (d *BasicDrawable) DrawPriority() int { return d.priority }

// SetDrawPriority sets the draw ordering value. Lower draws first.
func (d *BasicDrawable) SetDrawPriority(p int) { d.priority = p }

// SetLocalMbr overrides the accumulated bounds, for geometry whose
// extent is known up front.
func (d *BasicDrawable) SetLocalMbr(mbr geo.Mbr) { d.localMbr = mbr }

// AddVertex appends a vertex and grows the local bounds.
// Returns the vertex index for use with AddTriangle.
func (d *BasicDrawable) AddVertex(v Vertex) uint16 {
	d.vertices = append(d.vertices, v)
	d.localMbr.AddPoint(mgl32.Vec2{v.Position.X(), v.Position.Y()})
	return uint16(len(d.vertices) - 1)
}

// AddTriangle appends one triangle by vertex indices.
func (d *BasicDrawable) AddTriangle(a, b, c uint16) {
	d.indices = append(d.indices, a, b, c)
}

// VertexCount returns the number of vertices added so far.
func (d *BasicDrawable) VertexCount() int { return len(d.vertices) }

// TriangleCount returns the number of triangles added so far.
func (d *BasicDrawable) TriangleCount() int { return len(d.indices) / 3 }

// VertexBuffer returns the GPU vertex buffer, or gpu.InvalidID before
// Setup.
func (d *BasicDrawable) VertexBuffer() gpu.BufferID { return d.vertexBuf }

// IndexBuffer returns the GPU index buffer, or gpu.InvalidID before
// Setup.
func (d *BasicDrawable) IndexBuffer() gpu.BufferID { return d.indexBuf }

// Setup packs the mesh and uploads vertex and index buffers.
// Calling Setup on an already-initialized drawable is a no-op.
func (d *BasicDrawable) Setup(mem *gpu.MemoryManager, zRes float32) error {
	if d.setupDone {
		return nil
	}
	if len(d.vertices) == 0 || len(d.indices) == 0 {
		return ErrDrawableEmpty
	}

	vdata := d.packVertices(zRes)
	vbuf, err := mem.AllocBuffer(len(vdata), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	mem.WriteBuffer(vbuf, 0, vdata)

	idata := packIndices(d.indices)
	ibuf, err := mem.AllocBuffer(len(idata), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		mem.ReleaseBuffer(vbuf)
		return err
	}
	mem.WriteBuffer(ibuf, 0, idata)

	d.vertexBuf = vbuf
	d.indexBuf = ibuf
	d.setupDone = true
	return nil
}

// Teardown releases the GPU buffers. Safe to call before Setup and
// safe to call twice.
func (d *BasicDrawable) Teardown(mem *gpu.MemoryManager) {
	if d.vertexBuf != gpu.InvalidID {
		mem.ReleaseBuffer(d.vertexBuf)
		d.vertexBuf = gpu.InvalidID
	}
	if d.indexBuf != gpu.InvalidID {
		mem.ReleaseBuffer(d.indexBuf)
		d.indexBuf = gpu.InvalidID
	}
	d.setupDone = false
}

// packVertices serializes the interleaved vertex layout little-endian.
// zRes nudges each vertex along Z by one depth step per draw priority
// so co-planar geometry resolves consistently.
func (d *BasicDrawable) packVertices(zRes float32) []byte {
	zOff := zRes * float32(d.priority)
	out := make([]byte, 0, len(d.vertices)*vertexStride)
	var scratch [4]byte
	putF32 := func(f float32) {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(f))
		out = append(out, scratch[:]...)
	}
	for _, v := range d.vertices {
		putF32(v.Position.X())
		putF32(v.Position.Y())
		putF32(v.Position.Z() + zOff)
		putF32(v.TexCoord.X())
		putF32(v.TexCoord.Y())
		out = append(out, v.Color[0], v.Color[1], v.Color[2], v.Color[3])
	}
	return out
}

// packIndices serializes uint16 indices little-endian.
func packIndices(indices []uint16) []byte {
	out := make([]byte, len(indices)*2)
	for i, ix := range indices {
		binary.LittleEndian.PutUint16(out[i*2:], ix)
	}
	return out
}

// Ensure BasicDrawable implements Drawable.
var _ Drawable = (*BasicDrawable)(nil)
