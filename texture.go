package globe

import (
	"errors"
	"image"
	"math/bits"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/globe/gpu"
)

// ErrTextureNoData is returned when uploading a texture that has
// neither pixel data nor an existing GPU allocation.
var ErrTextureNoData = errors.New("globe: texture has no pixel data")

// Texture is an image staged for, or resident on, the GPU. Producers
// construct it with pixel data; after Upload the pixel slice is
// released and only the GPU handle remains.
type Texture struct {
	id     Ident
	name   string
	pixels []byte
	width  int
	height int
	format gputypes.TextureFormat

	// GPUID is the device handle, gpu.InvalidID until uploaded.
	GPUID gpu.TextureID
}

// NewTexture creates an RGBA texture from raw pixel data. The slice
// is owned by the texture from this point on.
func NewTexture(pixels []byte, width, height int) *Texture {
	return &Texture{
		id:     NewIdent(),
		pixels: pixels,
		width:  width,
		height: height,
		format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// NewTextureFromImage converts any image into an RGBA texture,
// rescaling to the next power of two per side when the source is not
// already power-of-two sized.
func NewTextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	w, h := nextPow2(b.Dx()), nextPow2(b.Dy())

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return NewTexture(dst.Pix, w, h)
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// ID returns the texture's scene identity.
func (t *Texture) ID() Ident { return t.id }

// Name returns the debug name, empty unless SetName was called.
func (t *Texture) Name() string { return t.name }

// SetName attaches a debug name.
func (t *Texture) SetName(name string) { t.name = name }

// Width returns the pixel width.
func (t *Texture) Width() int { return t.width }

// Height returns the pixel height.
func (t *Texture) Height() int { return t.height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Upload allocates GPU storage through mem, writes the pixels, and
// releases the CPU-side pixel slice. Uploading an already-uploaded
// texture is a no-op, so a texture can be re-added to a scene safely.
func (t *Texture) Upload(mem *gpu.MemoryManager) error {
	if t.GPUID != gpu.InvalidID {
		return nil
	}
	if len(t.pixels) == 0 {
		return ErrTextureNoData
	}
	id, err := mem.AllocTexture(t.width, t.height, t.format)
	if err != nil {
		return err
	}
	mem.WriteTexture(id, t.pixels)
	t.GPUID = id
	t.pixels = nil
	return nil
}

// Teardown releases GPU storage. Safe before Upload and safe twice.
func (t *Texture) Teardown(mem *gpu.MemoryManager) {
	if t.GPUID != gpu.InvalidID {
		mem.ReleaseTexture(t.GPUID)
		t.GPUID = gpu.InvalidID
	}
}
