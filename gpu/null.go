package gpu

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// NullDevice is a Device that allocates handles without touching any GPU.
// It is used for headless operation and tests: allocations and writes are
// tracked, never executed.
type NullDevice struct {
	mu     sync.Mutex
	nextID atomic.Uint64

	textures map[TextureID]int // bytes per live texture
	buffers  map[BufferID]int  // bytes per live buffer

	textureWrites int
	bufferWrites  int
}

// NewNullDevice creates a no-GPU device.
func NewNullDevice() *NullDevice {
	d := &NullDevice{
		textures: make(map[TextureID]int),
		buffers:  make(map[BufferID]int),
	}
	d.nextID.Store(1)
	return d
}

// CreateTexture records an allocation and returns a fresh handle.
func (d *NullDevice) CreateTexture(width, height int, format gputypes.TextureFormat) (TextureID, error) {
	if width <= 0 || height <= 0 {
		return InvalidID, ErrInvalidTextureSize
	}
	id := TextureID(d.nextID.Add(1) - 1)
	d.mu.Lock()
	d.textures[id] = width * height * FormatBytesPerPixel(format)
	d.mu.Unlock()
	return id, nil
}

// DestroyTexture forgets a texture allocation. Unknown IDs are ignored.
func (d *NullDevice) DestroyTexture(id TextureID) {
	d.mu.Lock()
	delete(d.textures, id)
	d.mu.Unlock()
}

// WriteTexture counts the write of a known texture.
func (d *NullDevice) WriteTexture(id TextureID, data []byte) {
	d.mu.Lock()
	if _, ok := d.textures[id]; ok && len(data) > 0 {
		d.textureWrites++
	}
	d.mu.Unlock()
}

// CreateBuffer records an allocation and returns a fresh handle.
func (d *NullDevice) CreateBuffer(size int, usage gputypes.BufferUsage) (BufferID, error) {
	if size <= 0 {
		return InvalidID, ErrInvalidBufferSize
	}
	id := BufferID(d.nextID.Add(1) - 1)
	d.mu.Lock()
	d.buffers[id] = size
	d.mu.Unlock()
	return id, nil
}

// DestroyBuffer forgets a buffer allocation. Unknown IDs are ignored.
func (d *NullDevice) DestroyBuffer(id BufferID) {
	d.mu.Lock()
	delete(d.buffers, id)
	d.mu.Unlock()
}

// WriteBuffer counts the write of a known buffer.
func (d *NullDevice) WriteBuffer(id BufferID, offset uint64, data []byte) {
	d.mu.Lock()
	if _, ok := d.buffers[id]; ok && len(data) > 0 {
		d.bufferWrites++
	}
	d.mu.Unlock()
}

// LiveTextures returns the number of live texture allocations.
func (d *NullDevice) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}

// LiveBuffers returns the number of live buffer allocations.
func (d *NullDevice) LiveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers)
}

// TextureWrites returns the number of texture uploads performed.
func (d *NullDevice) TextureWrites() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textureWrites
}

// BufferWrites returns the number of buffer writes performed.
func (d *NullDevice) BufferWrites() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bufferWrites
}

// Ensure NullDevice implements Device.
var _ Device = (*NullDevice)(nil)
