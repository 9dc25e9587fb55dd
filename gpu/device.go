// Package gpu provides the GPU resource layer for the scene core: opaque
// resource handles, a narrow device abstraction over gogpu/wgpu, and a
// memory manager that tracks GPU-side allocations against a budget.
package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Device errors.
var (
	// ErrInvalidTextureSize is returned when texture dimensions are not positive.
	ErrInvalidTextureSize = errors.New("gpu: texture dimensions must be positive")

	// ErrInvalidBufferSize is returned when buffer size is not positive.
	ErrInvalidBufferSize = errors.New("gpu: buffer size must be positive")
)

// Resource IDs
//
// These opaque IDs represent GPU resources. Each Device implementation
// maintains a mapping between IDs and actual backend resources. IDs are
// uint64 to accommodate various backend handle sizes.

// TextureID is an opaque handle to GPU texture storage.
type TextureID uint64

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// InvalidID is the zero value, representing an invalid/null resource.
// A texture whose handle equals InvalidID has not been uploaded.
const InvalidID = 0

// Device is the narrow GPU contract the scene core needs: creation,
// destruction, and writes for textures and buffers. It deliberately excludes
// pipelines, shaders, and command encoding, which belong to the renderer.
//
// Implementations must be safe for concurrent use; the memory manager is
// shared between producer goroutines and the render goroutine.
type Device interface {
	// CreateTexture allocates GPU texture storage and returns its handle.
	CreateTexture(width, height int, format gputypes.TextureFormat) (TextureID, error)

	// DestroyTexture releases texture storage. Unknown IDs are ignored.
	DestroyTexture(id TextureID)

	// WriteTexture uploads pixel data to a texture. The data must cover the
	// full texture extent in the format given at creation.
	WriteTexture(id TextureID, data []byte)

	// CreateBuffer allocates a GPU buffer and returns its handle.
	CreateBuffer(size int, usage gputypes.BufferUsage) (BufferID, error)

	// DestroyBuffer releases a buffer. Unknown IDs are ignored.
	DestroyBuffer(id BufferID)

	// WriteBuffer writes data to a buffer at the given offset.
	WriteBuffer(id BufferID, offset uint64, data []byte)
}

// DeviceProvider is how a host application hands the scene core its GPU
// device. It is an alias for gpucontext.DeviceProvider, keeping the scene
// core compatible with the gpucontext ecosystem: the core RECEIVES the
// device from the host, it does not create one.
type DeviceProvider = gpucontext.DeviceProvider

// FormatBytesPerPixel returns the per-pixel storage size for the texture
// formats the scene core uses. Unknown formats are assumed to be 4 bytes.
func FormatBytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatDepth24PlusStencil8:
		return 4
	default:
		return 4
	}
}
