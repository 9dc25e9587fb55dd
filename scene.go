package globe

import (
	"fmt"
	"sort"

	"github.com/gogpu/globe/cull"
	"github.com/gogpu/globe/geo"
	"github.com/gogpu/globe/gpu"
)

// DeviceProvider hands the scene a GPU device from the host
// application's context.
type DeviceProvider = gpu.DeviceProvider

// Scene configuration defaults.
const (
	// DefaultCullDepth is the quadtree subdivision bound.
	DefaultCullDepth = 4

	// DefaultScreenMargin is the screen-space generator's edge margin
	// in pixels.
	DefaultScreenMargin = 100
)

// SceneConfig configures a Scene. The zero value works: a NullDevice,
// the default memory budget, default cull depth, and no notification
// sink.
type SceneConfig struct {
	// Device is the GPU device for resource allocation. Nil means
	// Provider (when set) or NewNullDevice (headless).
	Device gpu.Device

	// Provider is the host application's device provider, consulted
	// when Device is nil. Providers that expose HAL types yield a
	// HAL-backed device; others fall back to a NullDevice with a
	// warning.
	Provider DeviceProvider

	// MemoryBudgetMB caps tracked GPU memory. Zero means
	// gpu.DefaultMaxMemoryMB.
	MemoryBudgetMB int

	// CullDepth bounds quadtree subdivision. Zero means
	// DefaultCullDepth.
	CullDepth int

	// ScreenMargin is the screen-space generator's edge margin in
	// pixels. Zero means DefaultScreenMargin.
	ScreenMargin float32

	// Sink receives notifications raised by NotificationRequest.
	// Nil drops them with a warning.
	Sink NotificationSink
}

// Scene owns the renderable state of a map or globe: registries of
// drawables, textures, generators and sub-textures, the spatial cull
// index, the GPU memory manager, and the change queue that serializes
// all mutation onto the render goroutine.
//
// Producers interact with a Scene only through AddChangeRequest and
// the notification sink. Everything else — ProcessChanges, lookups,
// active models, Teardown — belongs to the render goroutine.
type Scene struct {
	coordSys geo.CoordSystem
	cullTree *cull.Tree[Ident]
	mem      *gpu.MemoryManager
	queue    *ChangeQueue
	sink     NotificationSink

	drawables   map[Ident]Drawable
	textures    map[Ident]*Texture
	generators  map[Ident]Generator
	subTextures map[Ident]SubTexture

	activeModels []ActiveModel

	// Cached identities of the two generators every scene carries.
	screenSpaceGenID   Ident
	viewPlacementGenID Ident
}

// NewScene creates a scene over the given coordinate system and local
// extent. It registers the two shared generators (screen space, view
// placement) and caches their identities.
func NewScene(coordSys geo.CoordSystem, localMbr geo.Mbr, cfg SceneConfig) *Scene {
	dev := cfg.Device
	if dev == nil && cfg.Provider != nil {
		hd, err := gpu.NewHALDeviceFromProvider(cfg.Provider)
		if err != nil {
			Logger().Warn("device provider unusable, running headless", "error", err)
		} else {
			dev = hd
		}
	}
	if dev == nil {
		dev = gpu.NewNullDevice()
	}
	cullDepth := cfg.CullDepth
	if cullDepth <= 0 {
		cullDepth = DefaultCullDepth
	}
	margin := cfg.ScreenMargin
	if margin <= 0 {
		margin = DefaultScreenMargin
	}

	s := &Scene{
		coordSys:    coordSys,
		cullTree:    cull.New[Ident](coordSys, localMbr, cullDepth),
		mem:         gpu.NewMemoryManager(dev, gpu.MemoryManagerConfig{MaxMemoryMB: cfg.MemoryBudgetMB}),
		queue:       NewChangeQueue(),
		sink:        cfg.Sink,
		drawables:   make(map[Ident]Drawable),
		textures:    make(map[Ident]*Texture),
		generators:  make(map[Ident]Generator),
		subTextures: make(map[Ident]SubTexture),
	}

	ssGen := NewScreenSpaceGenerator(margin)
	vpGen := NewViewPlacementGenerator()
	s.generators[ssGen.ID()] = ssGen
	s.generators[vpGen.ID()] = vpGen
	s.screenSpaceGenID = ssGen.ID()
	s.viewPlacementGenID = vpGen.ID()
	return s
}

// CoordSystem returns the scene's coordinate system.
func (s *Scene) CoordSystem() geo.CoordSystem { return s.coordSys }

// MemoryManager returns the scene's GPU memory manager. Producers use
// it to size pending work; it is safe for concurrent use.
func (s *Scene) MemoryManager() *gpu.MemoryManager { return s.mem }

// AddChangeRequest enqueues one deferred mutation. Safe from any
// goroutine; the request executes on the next uncontended drain.
func (s *Scene) AddChangeRequest(req ChangeRequest) {
	s.queue.Enqueue(req)
}

// AddChangeRequests enqueues a batch in order as one atomic group.
func (s *Scene) AddChangeRequests(reqs []ChangeRequest) {
	s.queue.EnqueueBatch(reqs)
}

// HasChanges reports, without blocking, whether requests are waiting.
// The render loop uses it to decide if a redraw is needed.
func (s *Scene) HasChanges() bool {
	return s.queue.HasPending()
}

// ProcessChanges drains the change queue against the scene. Render
// goroutine only. Returns false when the queue lock is contended; the
// pending requests carry over to the next frame.
func (s *Scene) ProcessChanges(rc RenderContext) bool {
	return s.queue.Drain(s, rc)
}

// Drawable looks up a drawable by identity.
func (s *Scene) Drawable(id Ident) (Drawable, bool) {
	d, ok := s.drawables[id]
	return d, ok
}

// DrawablesForMbr returns the identities of drawables whose bounds
// overlap mbr, including drawables with invalid bounds.
func (s *Scene) DrawablesForMbr(mbr geo.Mbr) []Ident {
	return s.cullTree.Query(mbr)
}

// Texture looks up a texture by identity.
func (s *Scene) Texture(id Ident) (*Texture, bool) {
	t, ok := s.textures[id]
	return t, ok
}

// TextureHandle returns the GPU handle for a texture identity, or
// gpu.InvalidID when the texture is unknown or not yet uploaded.
func (s *Scene) TextureHandle(id Ident) gpu.TextureID {
	t, ok := s.textures[id]
	if !ok {
		return gpu.InvalidID
	}
	return t.GPUID
}

// Generator looks up a generator by identity.
func (s *Scene) Generator(id Ident) (Generator, bool) {
	g, ok := s.generators[id]
	return g, ok
}

// GeneratorIDByName finds a generator by name, EmptyIdent when absent.
// Linear scan; generator counts stay small.
func (s *Scene) GeneratorIDByName(name string) Ident {
	for id, g := range s.generators {
		if g.Name() == name {
			return id
		}
	}
	return EmptyIdent
}

// ScreenSpaceGeneratorID returns the cached identity of the shared
// screen-space generator.
func (s *Scene) ScreenSpaceGeneratorID() Ident { return s.screenSpaceGenID }

// ViewPlacementGeneratorID returns the cached identity of the shared
// view-placement generator.
func (s *Scene) ViewPlacementGeneratorID() Ident { return s.viewPlacementGenID }

// AddSubTexture registers a sub-texture mapping. Render goroutine (or
// construction phase) only.
func (s *Scene) AddSubTexture(sub SubTexture) {
	s.subTextures[sub.ID] = sub
}

// AddSubTextures registers a batch of sub-texture mappings.
func (s *Scene) AddSubTextures(subs []SubTexture) {
	for _, sub := range subs {
		s.subTextures[sub.ID] = sub
	}
}

// SubTexture resolves a sub-texture identity. An unknown identity
// yields the identity mapping onto a texture of the same identity, so
// callers treat "no remapping" and "identity remapping" uniformly.
func (s *Scene) SubTexture(id Ident) SubTexture {
	if sub, ok := s.subTextures[id]; ok {
		return sub
	}
	return SubTexture{ID: id, TexID: id, Transform: identMat3()}
}

// AddActiveModel appends model and starts it immediately. Render
// goroutine only.
func (s *Scene) AddActiveModel(model ActiveModel) {
	s.activeModels = append(s.activeModels, model)
	model.StartWithScene(s)
}

// RemoveActiveModel removes model and shuts it down. Removing a model
// that was never added is a no-op.
func (s *Scene) RemoveActiveModel(model ActiveModel) {
	for i, m := range s.activeModels {
		if m == model {
			s.activeModels = append(s.activeModels[:i], s.activeModels[i+1:]...)
			m.Shutdown()
			return
		}
	}
}

// UpdateActiveModels calls Update on every model in insertion order.
// The render loop calls this once per frame.
func (s *Scene) UpdateActiveModels(now float64) {
	for _, m := range s.activeModels {
		m.Update(now)
	}
}

// ActiveModelCount returns the number of registered active models.
func (s *Scene) ActiveModelCount() int { return len(s.activeModels) }

// SceneStats is a snapshot of scene registry sizes plus the cull and
// memory diagnostics.
type SceneStats struct {
	Drawables    int
	Textures     int
	Generators   int
	SubTextures  int
	ActiveModels int
	Cull         cull.Stats
	Memory       gpu.MemoryStats
}

// String implements fmt.Stringer.
func (st SceneStats) String() string {
	return fmt.Sprintf("Scene[%d drawables, %d textures, %d generators, %d subtextures, %d models] %s %s",
		st.Drawables, st.Textures, st.Generators, st.SubTextures,
		st.ActiveModels, st.Cull, st.Memory)
}

// Stats returns a diagnostic snapshot. Render goroutine only.
func (s *Scene) Stats() SceneStats {
	return SceneStats{
		Drawables:    len(s.drawables),
		Textures:     len(s.textures),
		Generators:   len(s.generators),
		SubTextures:  len(s.subTextures),
		ActiveModels: len(s.activeModels),
		Cull:         s.cullTree.Stats(),
		Memory:       s.mem.Stats(),
	}
}

// Teardown destroys the scene: remaining active models are shut down
// in insertion order, every drawable and texture releases its GPU
// resources, generators are discarded, queued-but-undrained requests
// are dropped unexecuted, and the memory manager closes.
//
// Teardown is a single-threaded phase; no scene method may be called
// after it. Callers that need pending work applied must drain first.
func (s *Scene) Teardown() {
	Logger().Info("scene teardown",
		"drawables", len(s.drawables),
		"textures", len(s.textures),
		"models", len(s.activeModels))

	for _, m := range s.activeModels {
		m.Shutdown()
	}
	s.activeModels = nil

	// Deterministic release order for reproducible diagnostics.
	for _, id := range sortedIdents(s.drawables) {
		s.drawables[id].Teardown(s.mem)
		s.cullTree.Remove(id)
	}
	s.drawables = nil
	for _, id := range sortedIdentsTex(s.textures) {
		s.textures[id].Teardown(s.mem)
	}
	s.textures = nil
	s.generators = nil
	s.subTextures = nil

	s.queue = NewChangeQueue()
	s.mem.Close()
}

func sortedIdents(m map[Ident]Drawable) []Ident {
	ids := make([]Ident, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedIdentsTex(m map[Ident]*Texture) []Ident {
	ids := make([]Ident, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
