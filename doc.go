// Package globe provides the scene-management core for a GPU globe/map
// renderer.
//
// # Overview
//
// globe holds the renderable state of a map or globe — drawables,
// textures, generators, sub-texture mappings, a spatial cull index —
// and mediates all mutation of that state between producer goroutines
// (layer loaders, gesture handlers, data importers) and a single render
// goroutine. Producers never touch scene state directly: they enqueue
// [ChangeRequest] values, and the render goroutine drains the queue
// once per frame via [Scene.ProcessChanges].
//
// # Quick Start
//
//	import "github.com/gogpu/globe"
//
//	extent := geo.NewMbr(-1, -1, 1, 1)
//	scene := globe.NewScene(geo.Flat{Extent: extent}, extent, globe.SceneConfig{})
//	defer scene.Teardown()
//
//	// Any goroutine: stage a texture for the next frame.
//	tex := globe.NewTexture(pixels, 256, 256)
//	scene.AddChangeRequest(globe.NewAddTextureRequest(tex))
//
//	// Render goroutine, once per frame:
//	scene.ProcessChanges(renderContext)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Scene, ChangeRequest, Drawable, Texture, SubTexture,
//     Generator, ActiveModel
//   - geo: bounding rectangles and the coordinate-system contract
//   - cull: depth-bounded quadtree cull index
//   - gpu: device abstraction, HAL-backed device, memory manager
//
// # Concurrency
//
// Enqueueing change requests is safe from any goroutine. Draining,
// lookups, and active-model calls belong to the render goroutine.
// Notification delivery happens on the main loop through a
// [NotificationSink].
package globe

// Version is the current version of the library.
const Version = "0.1.0"
