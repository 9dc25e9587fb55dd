package gpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// textureMetadata records what WriteTexture needs to lay out an upload.
type textureMetadata struct {
	width  int
	height int
	format gputypes.TextureFormat
}

// HALDevice implements Device using gogpu/wgpu/hal directly. It bridges the
// scene core's opaque resource IDs to HAL texture and buffer objects.
//
// Thread safety: HALDevice is safe for concurrent use from multiple
// goroutines. All resource maps are protected by a mutex; ID generation is
// atomic.
type HALDevice struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps scene-core IDs to hal resources.
	textures    map[TextureID]hal.Texture
	textureInfo map[TextureID]textureMetadata
	buffers     map[BufferID]hal.Buffer
}

// NewHALDevice creates a Device wrapping the given HAL device and queue.
func NewHALDevice(device hal.Device, queue hal.Queue) *HALDevice {
	d := &HALDevice{
		device:      device,
		queue:       queue,
		textures:    make(map[TextureID]hal.Texture),
		textureInfo: make(map[TextureID]textureMetadata),
		buffers:     make(map[BufferID]hal.Buffer),
	}

	// Start ID generation at 1 (0 is InvalidID).
	d.nextID.Store(1)

	return d
}

// NewHALDeviceFromProvider builds a HALDevice from a host application's
// device provider. The provider must expose HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue; gogpu application
// contexts do.
func NewHALDeviceFromProvider(provider any) (*HALDevice, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	return NewHALDevice(device, queue), nil
}

// newID generates a unique resource ID.
func (d *HALDevice) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// CreateTexture allocates GPU texture storage.
func (d *HALDevice) CreateTexture(width, height int, format gputypes.TextureFormat) (TextureID, error) {
	if width <= 0 || height <= 0 {
		return InvalidID, ErrInvalidTextureSize
	}

	desc := &hal.TextureDescriptor{
		Label: "scene_texture",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	}

	texture, err := d.device.CreateTexture(desc)
	if err != nil {
		return InvalidID, fmt.Errorf("gpu: failed to create texture: %w", err)
	}

	id := TextureID(d.newID())

	d.mu.Lock()
	d.textures[id] = texture
	d.textureInfo[id] = textureMetadata{width: width, height: height, format: format}
	d.mu.Unlock()

	return id, nil
}

// DestroyTexture releases texture storage. Unknown IDs are ignored.
func (d *HALDevice) DestroyTexture(id TextureID) {
	d.mu.Lock()
	texture, ok := d.textures[id]
	if ok {
		delete(d.textures, id)
		delete(d.textureInfo, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyTexture(texture)
	}
}

// WriteTexture uploads pixel data covering the full texture extent.
func (d *HALDevice) WriteTexture(id TextureID, data []byte) {
	d.mu.RLock()
	texture, ok := d.textures[id]
	info := d.textureInfo[id]
	d.mu.RUnlock()

	if !ok || len(data) == 0 {
		return
	}

	dst := &hal.ImageCopyTexture{
		Texture:  texture,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: 0, Y: 0, Z: 0},
		Aspect:   gputypes.TextureAspectAll,
	}

	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(info.width * FormatBytesPerPixel(info.format)),
		RowsPerImage: uint32(info.height),
	}

	size := &hal.Extent3D{
		Width:              uint32(info.width),
		Height:             uint32(info.height),
		DepthOrArrayLayers: 1,
	}

	d.queue.WriteTexture(dst, data, layout, size)
}

// CreateBuffer allocates a GPU buffer.
func (d *HALDevice) CreateBuffer(size int, usage gputypes.BufferUsage) (BufferID, error) {
	if size <= 0 {
		return InvalidID, ErrInvalidBufferSize
	}

	desc := &hal.BufferDescriptor{
		Label: "scene_buffer",
		Size:  uint64(size),
		Usage: usage,
	}

	buffer, err := d.device.CreateBuffer(desc)
	if err != nil {
		return InvalidID, fmt.Errorf("gpu: failed to create buffer: %w", err)
	}

	id := BufferID(d.newID())

	d.mu.Lock()
	d.buffers[id] = buffer
	d.mu.Unlock()

	return id, nil
}

// DestroyBuffer releases a buffer. Unknown IDs are ignored.
func (d *HALDevice) DestroyBuffer(id BufferID) {
	d.mu.Lock()
	buffer, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyBuffer(buffer)
	}
}

// WriteBuffer writes data to a buffer at the given offset.
func (d *HALDevice) WriteBuffer(id BufferID, offset uint64, data []byte) {
	d.mu.RLock()
	buffer, ok := d.buffers[id]
	d.mu.RUnlock()

	if ok && len(data) > 0 {
		d.queue.WriteBuffer(buffer, offset, data)
	}
}

// Ensure HALDevice implements Device.
var _ Device = (*HALDevice)(nil)
