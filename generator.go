package globe

import "github.com/go-gl/mathgl/mgl32"

// Well-known generator names, registered by every Scene at construction.
const (
	ScreenSpaceGeneratorName   = "screen space"
	ViewPlacementGeneratorName = "view placement"
)

// Generator is a per-frame geometry producer registered with the
// scene. The scene stores and identifies generators; the render loop
// drives the ones it knows how to use.
type Generator interface {
	// ID returns the generator's identity.
	ID() Ident

	// Name returns the generator's lookup name.
	Name() string
}

// ScreenSpaceGenerator places screen-space objects (labels, markers)
// each frame. The scene registers one under ScreenSpaceGeneratorName.
type ScreenSpaceGenerator struct {
	id     Ident
	margin float32
}

// NewScreenSpaceGenerator creates a screen-space generator with the
// given screen-edge margin, in pixels. Objects whose projected
// position falls outside the margin-expanded screen are skipped.
func NewScreenSpaceGenerator(margin float32) *ScreenSpaceGenerator {
	return &ScreenSpaceGenerator{id: NewIdent(), margin: margin}
}

func (g *ScreenSpaceGenerator) ID() Ident    { return g.id }
func (g *ScreenSpaceGenerator) Name() string { return ScreenSpaceGeneratorName }

// Margin returns the screen-edge margin in pixels.
func (g *ScreenSpaceGenerator) Margin() float32 { return g.margin }

// ViewPlacementGenerator repositions view-tracked objects as the eye
// moves, tracking a display-space offset per object. The scene
// registers one under ViewPlacementGeneratorName. Offset state is
// touched only on the render goroutine, like the registries.
type ViewPlacementGenerator struct {
	id      Ident
	offsets map[Ident]mgl32.Vec2
}

// NewViewPlacementGenerator creates a view-placement generator.
func NewViewPlacementGenerator() *ViewPlacementGenerator {
	return &ViewPlacementGenerator{
		id:      NewIdent(),
		offsets: make(map[Ident]mgl32.Vec2),
	}
}

// SetOffset records the display-space offset to apply to a tracked
// object each frame. Setting it again replaces the previous offset.
func (g *ViewPlacementGenerator) SetOffset(id Ident, offset mgl32.Vec2) {
	g.offsets[id] = offset
}

// Offset returns the tracked offset for an object.
func (g *ViewPlacementGenerator) Offset(id Ident) (mgl32.Vec2, bool) {
	off, ok := g.offsets[id]
	return off, ok
}

// RemoveOffset stops tracking an object. Unknown identities are a
// no-op.
func (g *ViewPlacementGenerator) RemoveOffset(id Ident) {
	delete(g.offsets, id)
}

// TrackedCount returns the number of tracked objects.
func (g *ViewPlacementGenerator) TrackedCount() int { return len(g.offsets) }

func (g *ViewPlacementGenerator) ID() Ident    { return g.id }
func (g *ViewPlacementGenerator) Name() string { return ViewPlacementGeneratorName }

// Interface checks.
var (
	_ Generator = (*ScreenSpaceGenerator)(nil)
	_ Generator = (*ViewPlacementGenerator)(nil)
)
