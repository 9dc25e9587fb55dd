package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
)

// Memory management errors.
var (
	// ErrMemoryBudgetExceeded is returned when allocation would exceed budget.
	ErrMemoryBudgetExceeded = errors.New("gpu: memory budget exceeded")

	// ErrMemoryManagerClosed is returned when operating on a closed manager.
	ErrMemoryManagerClosed = errors.New("gpu: memory manager closed")
)

// Default memory limits.
const (
	// DefaultMaxMemoryMB is the default maximum GPU memory budget (256 MB).
	DefaultMaxMemoryMB = 256

	// MinMemoryMB is the minimum allowed memory budget (16 MB).
	MinMemoryMB = 16
)

// MemoryStats contains GPU memory usage statistics.
type MemoryStats struct {
	// BudgetBytes is the total memory budget in bytes.
	BudgetBytes uint64

	// TextureBytes is the memory held by live textures.
	TextureBytes uint64

	// BufferBytes is the memory held by live buffers.
	BufferBytes uint64

	// TextureCount is the number of live texture allocations.
	TextureCount int

	// BufferCount is the number of live buffer allocations.
	BufferCount int

	// Utilization is the fraction of budget used (0.0 to 1.0).
	Utilization float64
}

// UsedBytes returns the total live allocation size.
func (s MemoryStats) UsedBytes() uint64 {
	return s.TextureBytes + s.BufferBytes
}

// String returns a human-readable string of memory stats.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d MB, %d textures, %d buffers]",
		s.Utilization*100,
		s.UsedBytes()/(1024*1024),
		s.BudgetBytes/(1024*1024),
		s.TextureCount,
		s.BufferCount)
}

// MemoryManager tracks GPU memory allocations and enforces a budget limit.
// It allocates through a Device and records the size of every live texture
// and buffer, so that the scene can report GPU memory pressure.
//
// Unlike a cache, the manager never evicts: object lifetime belongs to the
// scene's registries, which release resources through the matching Release
// calls.
//
// MemoryManager is safe for concurrent use.
type MemoryManager struct {
	mu sync.Mutex

	// Device used for the actual allocations.
	dev Device

	// Memory tracking
	budgetBytes uint64
	textures    map[TextureID]uint64 // bytes per live texture
	buffers     map[BufferID]uint64  // bytes per live buffer
	texBytes    uint64
	bufBytes    uint64

	// State
	closed bool
}

// MemoryManagerConfig holds configuration for creating a MemoryManager.
type MemoryManagerConfig struct {
	// MaxMemoryMB is the maximum memory budget in megabytes.
	// Defaults to DefaultMaxMemoryMB if below MinMemoryMB.
	MaxMemoryMB int
}

// NewMemoryManager creates a memory manager allocating through dev.
func NewMemoryManager(dev Device, config MemoryManagerConfig) *MemoryManager {
	maxMB := config.MaxMemoryMB
	if maxMB < MinMemoryMB {
		maxMB = DefaultMaxMemoryMB
	}

	return &MemoryManager{
		dev:         dev,
		budgetBytes: uint64(maxMB) * 1024 * 1024,
		textures:    make(map[TextureID]uint64),
		buffers:     make(map[BufferID]uint64),
	}
}

// Device returns the underlying device, for callers that need direct writes.
func (m *MemoryManager) Device() Device { return m.dev }

// AllocTexture allocates GPU texture storage of the given dimensions and
// format, tracking its size against the budget.
func (m *MemoryManager) AllocTexture(width, height int, format gputypes.TextureFormat) (TextureID, error) {
	size := uint64(width) * uint64(height) * uint64(FormatBytesPerPixel(format))

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return InvalidID, ErrMemoryManagerClosed
	}
	if m.texBytes+m.bufBytes+size > m.budgetBytes {
		slogger().Warn("texture allocation exceeds GPU memory budget",
			"requested", size, "used", m.texBytes+m.bufBytes, "budget", m.budgetBytes)
		return InvalidID, fmt.Errorf("%w: texture %dx%d needs %d bytes",
			ErrMemoryBudgetExceeded, width, height, size)
	}

	id, err := m.dev.CreateTexture(width, height, format)
	if err != nil {
		return InvalidID, err
	}

	m.textures[id] = size
	m.texBytes += size
	return id, nil
}

// ReleaseTexture releases texture storage. Unknown IDs are a no-op.
func (m *MemoryManager) ReleaseTexture(id TextureID) {
	m.mu.Lock()
	size, ok := m.textures[id]
	if ok {
		delete(m.textures, id)
		m.texBytes -= size
	}
	m.mu.Unlock()

	if ok {
		m.dev.DestroyTexture(id)
	}
}

// WriteTexture uploads pixel data to an allocated texture.
func (m *MemoryManager) WriteTexture(id TextureID, data []byte) {
	m.dev.WriteTexture(id, data)
}

// AllocBuffer allocates a GPU buffer, tracking its size against the budget.
func (m *MemoryManager) AllocBuffer(size int, usage gputypes.BufferUsage) (BufferID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return InvalidID, ErrMemoryManagerClosed
	}
	if m.texBytes+m.bufBytes+uint64(size) > m.budgetBytes {
		slogger().Warn("buffer allocation exceeds GPU memory budget",
			"requested", size, "used", m.texBytes+m.bufBytes, "budget", m.budgetBytes)
		return InvalidID, fmt.Errorf("%w: buffer needs %d bytes",
			ErrMemoryBudgetExceeded, size)
	}

	id, err := m.dev.CreateBuffer(size, usage)
	if err != nil {
		return InvalidID, err
	}

	m.buffers[id] = uint64(size)
	m.bufBytes += uint64(size)
	return id, nil
}

// ReleaseBuffer releases a buffer. Unknown IDs are a no-op.
func (m *MemoryManager) ReleaseBuffer(id BufferID) {
	m.mu.Lock()
	size, ok := m.buffers[id]
	if ok {
		delete(m.buffers, id)
		m.bufBytes -= size
	}
	m.mu.Unlock()

	if ok {
		m.dev.DestroyBuffer(id)
	}
}

// WriteBuffer writes data to an allocated buffer.
func (m *MemoryManager) WriteBuffer(id BufferID, offset uint64, data []byte) {
	m.dev.WriteBuffer(id, offset, data)
}

// Stats returns current memory usage statistics.
func (m *MemoryManager) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var utilization float64
	if m.budgetBytes > 0 {
		utilization = float64(m.texBytes+m.bufBytes) / float64(m.budgetBytes)
	}

	return MemoryStats{
		BudgetBytes:  m.budgetBytes,
		TextureBytes: m.texBytes,
		BufferBytes:  m.bufBytes,
		TextureCount: len(m.textures),
		BufferCount:  len(m.buffers),
		Utilization:  utilization,
	}
}

// Close releases all live allocations and closes the memory manager.
// The manager should not be used after Close is called.
func (m *MemoryManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	for id := range m.textures {
		m.dev.DestroyTexture(id)
	}
	for id := range m.buffers {
		m.dev.DestroyBuffer(id)
	}

	m.textures = nil
	m.buffers = nil
	m.texBytes = 0
	m.bufBytes = 0
	m.closed = true
}
