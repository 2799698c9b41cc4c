package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MatchRequest is one pending language-exchange request: FromUser asks
// ToUser to become conversation partners. Teach/Learn and the two
// cities mirror what the review screen displays.
type MatchRequest struct {
	ID        string    `json:"_id"`
	FromUser  int64     `json:"fromUser"`
	FromName  string    `json:"name"`
	ToUser    int64     `json:"toUser"`
	Teach     string    `json:"teach"`
	Learn     string    `json:"learn"`
	City0     string    `json:"city0"`
	City1     string    `json:"city1"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchRegistry holds pending requests in memory. Accepting one hands
// it back to the caller, which provisions the room in the hub.
type MatchRegistry struct {
	mu       sync.RWMutex
	requests map[string]*MatchRequest
	order    []string
}

// NewMatchRegistry returns an empty registry.
func NewMatchRegistry() *MatchRegistry {
	return &MatchRegistry{requests: map[string]*MatchRequest{}}
}

// Add stores a request and returns its generated id.
func (r *MatchRegistry) Add(req MatchRequest) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = uuid.NewString()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	stored := req
	r.requests[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	return stored.ID
}

// PendingFor lists requests addressed to the given user, oldest first.
func (r *MatchRegistry) PendingFor(user int64) []MatchRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []MatchRequest{}
	for _, id := range r.order {
		if req, ok := r.requests[id]; ok && req.ToUser == user {
			out = append(out, *req)
		}
	}
	return out
}

// Accept removes the request and returns it for room provisioning.
func (r *MatchRegistry) Accept(id string) (MatchRequest, bool) {
	return r.take(id)
}

// Deny removes the request without further effect.
func (r *MatchRegistry) Deny(id string) bool {
	_, ok := r.take(id)
	return ok
}

func (r *MatchRegistry) take(id string) (MatchRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return MatchRequest{}, false
	}
	delete(r.requests, id)
	for i, key := range r.order {
		if key == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return *req, true
}
