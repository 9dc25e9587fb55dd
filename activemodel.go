package globe

// ActiveModel is a long-lived participant in the render loop: an
// animation, a paging layer, anything that needs a call every frame.
// All three methods run on the render goroutine.
type ActiveModel interface {
	// StartWithScene is called once when the model is added.
	StartWithScene(s *Scene)

	// Update is called once per frame with the current time in
	// seconds.
	Update(now float64)

	// Shutdown is called when the model is removed, or during scene
	// teardown if the model is still registered.
	Shutdown()
}
