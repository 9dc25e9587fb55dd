package globe

import (
	"sync"
	"testing"

	"github.com/gogpu/globe/geo"
)

// recordRequest appends its tag to a shared log when executed.
type recordRequest struct {
	tag string
	log *[]string
}

func (r *recordRequest) Execute(s *Scene, rc RenderContext) {
	*r.log = append(*r.log, r.tag)
}

func newTestScene() *Scene {
	extent := geo.NewMbr(-1, -1, 1, 1)
	return NewScene(geo.Flat{Extent: extent}, extent, SceneConfig{})
}

func TestChangeQueueFIFO(t *testing.T) {
	s := newTestScene()
	defer s.Teardown()
	q := NewChangeQueue()

	var log []string
	q.Enqueue(&recordRequest{"a", &log})
	q.EnqueueBatch([]ChangeRequest{
		&recordRequest{"b", &log},
		&recordRequest{"c", &log},
	})
	q.Enqueue(&recordRequest{"d", &log})

	if got := q.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}
	if !q.HasPending() {
		t.Fatal("HasPending() = false, want true")
	}

	if !q.Drain(s, NullRenderContext{}) {
		t.Fatal("Drain() = false with no contention")
	}
	want := []string{"a", "b", "c", "d"}
	if len(log) != len(want) {
		t.Fatalf("executed %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("executed %v, want %v", log, want)
		}
	}

	if q.HasPending() {
		t.Error("HasPending() = true after drain")
	}
	if got := q.Len(); got != 0 {
		t.Errorf("Len() after drain = %d, want 0", got)
	}
}

func TestChangeQueueConcurrentProducers(t *testing.T) {
	s := newTestScene()
	defer s.Teardown()
	q := NewChangeQueue()

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0
	counter := &countRequest{mu: &mu, n: &count}

	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Enqueue(counter)
			}
		}()
	}
	wg.Wait()

	q.Drain(s, NullRenderContext{})
	if count != producers*perProducer {
		t.Errorf("executed %d requests, want %d", count, producers*perProducer)
	}
}

type countRequest struct {
	mu *sync.Mutex
	n  *int
}

func (r *countRequest) Execute(s *Scene, rc RenderContext) {
	r.mu.Lock()
	*r.n++
	r.mu.Unlock()
}

// blockRequest parks Execute until released, holding the drain lock.
type blockRequest struct {
	entered chan struct{}
	release chan struct{}
}

func (r *blockRequest) Execute(s *Scene, rc RenderContext) {
	close(r.entered)
	<-r.release
}

func TestChangeQueueHasPendingNeverBlocks(t *testing.T) {
	s := newTestScene()
	defer s.Teardown()
	q := NewChangeQueue()

	br := &blockRequest{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	q.Enqueue(br)

	done := make(chan bool)
	go func() {
		done <- q.Drain(s, NullRenderContext{})
	}()
	<-br.entered

	// The drain holds the queue lock while executing. HasPending must
	// return immediately rather than wait for it.
	if q.HasPending() {
		t.Error("HasPending() = true during contended drain, want false")
	}

	close(br.release)
	if !<-done {
		t.Error("Drain() = false, want true")
	}
}

func TestChangeQueueDrainContentionSkipsFrame(t *testing.T) {
	s := newTestScene()
	defer s.Teardown()
	q := NewChangeQueue()

	var log []string
	q.Enqueue(&recordRequest{"x", &log})

	// Simulate a producer holding the lock mid-enqueue.
	q.mu.Lock()
	if q.Drain(s, NullRenderContext{}) {
		t.Error("Drain() = true under contention, want false")
	}
	q.mu.Unlock()

	if len(log) != 0 {
		t.Fatalf("requests executed during contended drain: %v", log)
	}

	// The deferred work survives to the next frame.
	if !q.Drain(s, NullRenderContext{}) {
		t.Fatal("Drain() = false after lock released")
	}
	if len(log) != 1 || log[0] != "x" {
		t.Errorf("executed %v, want [x]", log)
	}
}

type nopRequest struct{}

func (nopRequest) Execute(s *Scene, rc RenderContext) {}

func BenchmarkChangeQueueEnqueueDrain(b *testing.B) {
	s := newTestScene()
	defer s.Teardown()
	q := NewChangeQueue()
	rc := NullRenderContext{}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Enqueue(nopRequest{})
		if i%64 == 63 {
			q.Drain(s, rc)
		}
	}
}
