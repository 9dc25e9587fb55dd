package globe

// RenderContext is the render loop's per-frame collaborator, supplied
// to every change-queue drain. It hands executing requests the state
// they need from the renderer without coupling the scene to it.
type RenderContext interface {
	// ZBufferResolution reports the depth-buffer resolution drawables
	// use to offset geometry during GPU setup.
	ZBufferResolution() float32

	// DrawableChanged tells the renderer a drawable was added or its
	// GPU-side state rebuilt, so cached draw lists can be refreshed.
	DrawableChanged(d Drawable)
}

// NullRenderContext is a RenderContext that does nothing. It serves
// headless processing and tests.
type NullRenderContext struct{}

func (NullRenderContext) ZBufferResolution() float32 { return 0 }
func (NullRenderContext) DrawableChanged(Drawable)   {}

// Ensure NullRenderContext implements RenderContext.
var _ RenderContext = NullRenderContext{}
