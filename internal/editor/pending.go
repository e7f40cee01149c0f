package editor

import "sync"

// PendingOpen is a single-slot, take-once holder for a document path
// handed to the process before the UI is ready to open it (a launch
// argument or an "open with" event).
//
// One side Sets, the other Takes; Take empties the slot so the same path
// is never delivered twice. A later Set overwrites an untaken value,
// matching "open the most recent request" semantics.
type PendingOpen struct {
	mu   sync.Mutex
	path string
	set  bool
}

// Set stores path in the slot if it refers to a text-openable file.
// Returns whether the path was accepted.
func (p *PendingOpen) Set(path string) bool {
	if path == "" || !IsTextOpenable(path) {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.path = path
	p.set = true

	return true
}

// Take removes and returns the pending path, if any.
func (p *PendingOpen) Take() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.set {
		return "", false
	}

	path := p.path
	p.path = ""
	p.set = false

	return path, true
}
