package globe

// ChangeRequest is a deferred mutation of scene state. Producers build
// requests on any goroutine and enqueue them; the render goroutine
// executes each exactly once during a queue drain. Execute must not
// block and must not re-enter the scene's request API.
type ChangeRequest interface {
	Execute(s *Scene, rc RenderContext)
}

// AddTextureRequest uploads a texture and registers it with the scene.
// Ownership of the texture moves to the scene's registry on execution.
type AddTextureRequest struct {
	tex *Texture
}

// NewAddTextureRequest stages tex for addition.
func NewAddTextureRequest(tex *Texture) *AddTextureRequest {
	return &AddTextureRequest{tex: tex}
}

func (r *AddTextureRequest) Execute(s *Scene, rc RenderContext) {
	if r.tex == nil {
		return
	}
	// Upload skips textures that already hold a GPU handle, so a
	// texture removed and re-added keeps its storage.
	if err := r.tex.Upload(s.mem); err != nil {
		Logger().Warn("texture upload failed",
			"id", uint64(r.tex.ID()), "error", err)
		return
	}
	s.textures[r.tex.ID()] = r.tex
	r.tex = nil
}

// RemoveTextureRequest releases a texture's GPU storage and drops it
// from the scene. Removing an unknown identity is a no-op, so removal
// can race request execution as a cancellation.
type RemoveTextureRequest struct {
	id Ident
}

// NewRemoveTextureRequest stages the removal of a texture by identity.
func NewRemoveTextureRequest(id Ident) *RemoveTextureRequest {
	return &RemoveTextureRequest{id: id}
}

func (r *RemoveTextureRequest) Execute(s *Scene, rc RenderContext) {
	tex, ok := s.textures[r.id]
	if !ok {
		return
	}
	tex.Teardown(s.mem)
	delete(s.textures, r.id)
}

// AddDrawableRequest registers a drawable, indexes it for culling,
// and runs its GPU setup. Ownership moves to the scene on execution.
type AddDrawableRequest struct {
	drawable Drawable
}

// NewAddDrawableRequest stages d for addition.
func NewAddDrawableRequest(d Drawable) *AddDrawableRequest {
	return &AddDrawableRequest{drawable: d}
}

func (r *AddDrawableRequest) Execute(s *Scene, rc RenderContext) {
	if r.drawable == nil {
		return
	}
	d := r.drawable
	r.drawable = nil

	s.drawables[d.ID()] = d
	s.cullTree.Insert(d.ID(), d.LocalMbr())
	if err := d.Setup(s.mem, rc.ZBufferResolution()); err != nil {
		Logger().Warn("drawable setup failed",
			"id", uint64(d.ID()), "error", err)
	}
	rc.DrawableChanged(d)
}

// RemoveDrawableRequest tears down a drawable and drops it from the
// scene and cull index. Removing an unknown identity is a no-op.
type RemoveDrawableRequest struct {
	id Ident
}

// NewRemoveDrawableRequest stages the removal of a drawable by identity.
func NewRemoveDrawableRequest(id Ident) *RemoveDrawableRequest {
	return &RemoveDrawableRequest{id: id}
}

func (r *RemoveDrawableRequest) Execute(s *Scene, rc RenderContext) {
	d, ok := s.drawables[r.id]
	if !ok {
		return
	}
	d.Teardown(s.mem)
	s.cullTree.Remove(r.id)
	delete(s.drawables, r.id)
}

// AddGeneratorRequest registers a generator with the scene.
type AddGeneratorRequest struct {
	gen Generator
}

// NewAddGeneratorRequest stages gen for addition.
func NewAddGeneratorRequest(gen Generator) *AddGeneratorRequest {
	return &AddGeneratorRequest{gen: gen}
}

func (r *AddGeneratorRequest) Execute(s *Scene, rc RenderContext) {
	if r.gen == nil {
		return
	}
	s.generators[r.gen.ID()] = r.gen
	r.gen = nil
}

// RemoveGeneratorRequest discards a generator by identity. Removing
// an unknown identity is a no-op.
type RemoveGeneratorRequest struct {
	id Ident
}

// NewRemoveGeneratorRequest stages the removal of a generator.
func NewRemoveGeneratorRequest(id Ident) *RemoveGeneratorRequest {
	return &RemoveGeneratorRequest{id: id}
}

func (r *RemoveGeneratorRequest) Execute(s *Scene, rc RenderContext) {
	delete(s.generators, r.id)
}

// NotificationRequest posts a named notification through the scene's
// sink once the requests queued before it have executed. Layers use it
// to signal "your data is now in the scene".
type NotificationRequest struct {
	name    string
	payload any
}

// NewNotificationRequest stages a notification.
func NewNotificationRequest(name string, payload any) *NotificationRequest {
	return &NotificationRequest{name: name, payload: payload}
}

func (r *NotificationRequest) Execute(s *Scene, rc RenderContext) {
	if s.sink == nil {
		Logger().Warn("notification dropped, no sink configured",
			"name", r.name)
		return
	}
	s.sink.Post(r.name, r.payload)
}
