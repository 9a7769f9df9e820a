package live

import (
	"sync"

	"github.com/weft-dev/weft/pkg/dom"
)

// Recorder is a PatchSink that records every patch it receives.
// It is safe for concurrent use and intended for tests and tooling.
type Recorder struct {
	mu      sync.Mutex
	patches []dom.Patch
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Apply records the patch.
func (r *Recorder) Apply(p dom.Patch) {
	r.mu.Lock()
	r.patches = append(r.patches, p)
	r.mu.Unlock()
}

// Patches returns a copy of the recorded patches in order.
func (r *Recorder) Patches() []dom.Patch {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dom.Patch, len(r.patches))
	copy(out, r.patches)
	return out
}

// Len returns the number of recorded patches.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patches)
}

// Reset discards all recorded patches.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.patches = r.patches[:0]
	r.mu.Unlock()
}
