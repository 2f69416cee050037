package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/findkit/internal/search"
)

// TrackedDocument is a document the registry can key sessions by.
type TrackedDocument interface {
	Document
	ID() uuid.UUID
}

// Registry hands out at most one session per document. Unlike the
// sessions it holds, the registry itself is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Obtain returns the document's existing session, or creates one with
// the given options. Existing sessions keep their own options; use
// Session.SetOptions to change them.
func (r *Registry) Obtain(doc TrackedDocument, opts search.Options) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[doc.ID()]; ok {
		return s, nil
	}
	s, err := New(doc, opts)
	if err != nil {
		return nil, err
	}
	r.sessions[doc.ID()] = s
	return s, nil
}

// Lookup returns the session for a document ID, if one exists.
func (r *Registry) Lookup(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close drops the session for a document, typically when the document
// closes. Session bookmarks are not cleared; callers that want that
// call ClearMarks first.
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
