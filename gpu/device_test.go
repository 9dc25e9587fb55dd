package gpu

import (
	"sync"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestNullDeviceIDsUnique(t *testing.T) {
	dev := NewNullDevice()

	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		tex, err := dev.CreateTexture(4, 4, gputypes.TextureFormatRGBA8Unorm)
		if err != nil {
			t.Fatal(err)
		}
		buf, err := dev.CreateBuffer(16, gputypes.BufferUsageVertex)
		if err != nil {
			t.Fatal(err)
		}
		if tex == InvalidID || buf == InvalidID {
			t.Fatal("got InvalidID from successful allocation")
		}
		if seen[uint64(tex)] || seen[uint64(buf)] {
			t.Fatalf("duplicate resource ID (tex=%d buf=%d)", tex, buf)
		}
		seen[uint64(tex)] = true
		seen[uint64(buf)] = true
	}
}

func TestNullDeviceConcurrentCreate(t *testing.T) {
	dev := NewNullDevice()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := dev.CreateBuffer(8, gputypes.BufferUsageUniform); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if got := dev.LiveBuffers(); got != 400 {
		t.Errorf("LiveBuffers() = %d, want 400", got)
	}
}

func TestNullDeviceInvalidSizes(t *testing.T) {
	dev := NewNullDevice()

	if _, err := dev.CreateTexture(0, 10, gputypes.TextureFormatRGBA8Unorm); err == nil {
		t.Error("CreateTexture(0, 10) should fail")
	}
	if _, err := dev.CreateTexture(10, -1, gputypes.TextureFormatRGBA8Unorm); err == nil {
		t.Error("CreateTexture(10, -1) should fail")
	}
	if _, err := dev.CreateBuffer(0, gputypes.BufferUsageVertex); err == nil {
		t.Error("CreateBuffer(0) should fail")
	}
}

func TestNullDeviceWriteTracking(t *testing.T) {
	dev := NewNullDevice()

	tex, _ := dev.CreateTexture(2, 2, gputypes.TextureFormatRGBA8Unorm)
	buf, _ := dev.CreateBuffer(16, gputypes.BufferUsageCopyDst)

	dev.WriteTexture(tex, make([]byte, 16))
	dev.WriteBuffer(buf, 0, make([]byte, 16))

	// Writes to unknown or destroyed resources are ignored.
	dev.WriteTexture(TextureID(777), make([]byte, 4))
	dev.DestroyBuffer(buf)
	dev.WriteBuffer(buf, 0, make([]byte, 4))

	if got := dev.TextureWrites(); got != 1 {
		t.Errorf("TextureWrites() = %d, want 1", got)
	}
	if got := dev.BufferWrites(); got != 1 {
		t.Errorf("BufferWrites() = %d, want 1", got)
	}
}
