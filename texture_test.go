package globe

import (
	"image"
	"testing"

	"github.com/gogpu/globe/gpu"
)

func newTestMemory() (*gpu.MemoryManager, *gpu.NullDevice) {
	dev := gpu.NewNullDevice()
	return gpu.NewMemoryManager(dev, gpu.MemoryManagerConfig{}), dev
}

func TestTextureUpload(t *testing.T) {
	mem, dev := newTestMemory()
	defer mem.Close()

	tex := NewTexture(make([]byte, 4*4*4), 4, 4)
	if tex.GPUID != gpu.InvalidID {
		t.Fatal("new texture already has a GPU handle")
	}

	if err := tex.Upload(mem); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}
	if tex.GPUID == gpu.InvalidID {
		t.Fatal("Upload() left GPUID invalid")
	}
	if got := dev.TextureWrites(); got != 1 {
		t.Errorf("device writes = %d, want 1", got)
	}

	// Re-uploading an uploaded texture is a no-op, even though the
	// pixel slice was released.
	prev := tex.GPUID
	if err := tex.Upload(mem); err != nil {
		t.Fatalf("second Upload() error: %v", err)
	}
	if tex.GPUID != prev {
		t.Error("second Upload() changed the GPU handle")
	}
	if got := dev.TextureWrites(); got != 1 {
		t.Errorf("device writes after re-upload = %d, want 1", got)
	}
}

func TestTextureUploadNoData(t *testing.T) {
	mem, _ := newTestMemory()
	defer mem.Close()

	tex := NewTexture(nil, 4, 4)
	if err := tex.Upload(mem); err == nil {
		t.Error("Upload() of empty texture should fail")
	}
}

func TestTextureTeardown(t *testing.T) {
	mem, dev := newTestMemory()
	defer mem.Close()

	tex := NewTexture(make([]byte, 4*4*4), 4, 4)
	if err := tex.Upload(mem); err != nil {
		t.Fatal(err)
	}
	tex.Teardown(mem)
	if tex.GPUID != gpu.InvalidID {
		t.Error("Teardown() left GPUID set")
	}
	if got := dev.LiveTextures(); got != 0 {
		t.Errorf("LiveTextures() = %d, want 0", got)
	}

	// Safe to repeat, safe before upload.
	tex.Teardown(mem)
	NewTexture(nil, 1, 1).Teardown(mem)
}

func TestNewTextureFromImage(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{"power of two passthrough", 64, 32, 64, 32},
		{"rescale up", 100, 60, 128, 64},
		{"tiny", 1, 1, 1, 1},
		{"one over", 65, 65, 128, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			tex := NewTextureFromImage(src)
			if tex.Width() != tt.wantW || tex.Height() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d",
					tex.Width(), tex.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8},
		{255, 256}, {256, 256}, {257, 512},
	}
	for _, tt := range tests {
		if got := nextPow2(tt.in); got != tt.want {
			t.Errorf("nextPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
