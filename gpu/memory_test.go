package gpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
)

func newTestManager(maxMB int) (*MemoryManager, *NullDevice) {
	dev := NewNullDevice()
	return NewMemoryManager(dev, MemoryManagerConfig{MaxMemoryMB: maxMB}), dev
}

func TestMemoryManagerAllocRelease(t *testing.T) {
	m, dev := newTestManager(64)

	tex, err := m.AllocTexture(128, 128, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("AllocTexture() error = %v", err)
	}
	if tex == InvalidID {
		t.Fatal("AllocTexture() returned InvalidID")
	}

	buf, err := m.AllocBuffer(1024, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		t.Fatalf("AllocBuffer() error = %v", err)
	}

	stats := m.Stats()
	if stats.TextureCount != 1 || stats.BufferCount != 1 {
		t.Errorf("counts = %d textures, %d buffers; want 1, 1", stats.TextureCount, stats.BufferCount)
	}
	if want := uint64(128 * 128 * 4); stats.TextureBytes != want {
		t.Errorf("TextureBytes = %d, want %d", stats.TextureBytes, want)
	}
	if stats.BufferBytes != 1024 {
		t.Errorf("BufferBytes = %d, want 1024", stats.BufferBytes)
	}

	m.ReleaseTexture(tex)
	m.ReleaseBuffer(buf)

	stats = m.Stats()
	if stats.UsedBytes() != 0 {
		t.Errorf("UsedBytes() after release = %d, want 0", stats.UsedBytes())
	}
	if dev.LiveTextures() != 0 || dev.LiveBuffers() != 0 {
		t.Errorf("device still holds %d textures, %d buffers", dev.LiveTextures(), dev.LiveBuffers())
	}
}

func TestMemoryManagerReleaseUnknown(t *testing.T) {
	m, _ := newTestManager(64)

	// Releasing identities never allocated must not disturb accounting.
	m.ReleaseTexture(TextureID(9999))
	m.ReleaseBuffer(BufferID(9999))

	if used := m.Stats().UsedBytes(); used != 0 {
		t.Errorf("UsedBytes() = %d, want 0", used)
	}
}

func TestMemoryManagerBudget(t *testing.T) {
	m, _ := newTestManager(16) // 16 MB

	// 2048x2048 RGBA8 = 16 MB exactly; a second one must fail.
	if _, err := m.AllocTexture(2048, 2048, gputypes.TextureFormatRGBA8Unorm); err != nil {
		t.Fatalf("first AllocTexture() error = %v", err)
	}
	_, err := m.AllocTexture(2048, 2048, gputypes.TextureFormatRGBA8Unorm)
	if !errors.Is(err, ErrMemoryBudgetExceeded) {
		t.Errorf("second AllocTexture() error = %v, want ErrMemoryBudgetExceeded", err)
	}

	_, err = m.AllocBuffer(1024, gputypes.BufferUsageStorage)
	if !errors.Is(err, ErrMemoryBudgetExceeded) {
		t.Errorf("AllocBuffer() over budget error = %v, want ErrMemoryBudgetExceeded", err)
	}
}

func TestMemoryManagerClose(t *testing.T) {
	m, dev := newTestManager(64)

	if _, err := m.AllocTexture(64, 64, gputypes.TextureFormatRGBA8Unorm); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AllocBuffer(256, gputypes.BufferUsageUniform); err != nil {
		t.Fatal(err)
	}

	m.Close()

	if dev.LiveTextures() != 0 || dev.LiveBuffers() != 0 {
		t.Errorf("Close() left %d textures, %d buffers live", dev.LiveTextures(), dev.LiveBuffers())
	}

	if _, err := m.AllocBuffer(16, gputypes.BufferUsageUniform); !errors.Is(err, ErrMemoryManagerClosed) {
		t.Errorf("AllocBuffer() after Close error = %v, want ErrMemoryManagerClosed", err)
	}

	// Double close is safe.
	m.Close()
}

func TestMemoryStatsString(t *testing.T) {
	m, _ := newTestManager(64)
	if _, err := m.AllocTexture(512, 512, gputypes.TextureFormatRGBA8Unorm); err != nil {
		t.Fatal(err)
	}

	s := m.Stats().String()
	if !strings.Contains(s, "1 textures") {
		t.Errorf("Stats().String() = %q, want texture count", s)
	}
	if !strings.Contains(s, "64 MB") {
		t.Errorf("Stats().String() = %q, want budget in MB", s)
	}
}

func TestFormatBytesPerPixel(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   int
	}{
		{gputypes.TextureFormatRGBA8Unorm, 4},
		{gputypes.TextureFormatBGRA8Unorm, 4},
		{gputypes.TextureFormatR8Unorm, 1},
	}

	for _, tt := range tests {
		if got := FormatBytesPerPixel(tt.format); got != tt.want {
			t.Errorf("FormatBytesPerPixel(%v) = %d, want %d", tt.format, got, tt.want)
		}
	}
}
