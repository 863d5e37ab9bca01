package realtime

import (
	"sync"
)

// Registry maps topics to the sessions currently subscribed to them. It is
// the single shared mutable structure of the broadcast core; one mutex
// guards both directions of the subscription relation so they can never
// disagree.
type Registry struct {
	mu     sync.RWMutex
	topics map[Topic]map[*Session]struct{}
	joined map[*Session]map[Topic]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		topics: make(map[Topic]map[*Session]struct{}),
		joined: make(map[*Session]map[Topic]struct{}),
	}
}

// Join subscribes sess to topic. Idempotent.
func (r *Registry) Join(sess *Session, topic Topic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.topics[topic]
	if !ok {
		members = make(map[*Session]struct{})
		r.topics[topic] = members
	}
	members[sess] = struct{}{}

	topics, ok := r.joined[sess]
	if !ok {
		topics = make(map[Topic]struct{})
		r.joined[sess] = topics
	}
	topics[topic] = struct{}{}
}

// Leave removes the subscription. Idempotent; no error if never joined.
// The topic entry is dropped when its last member leaves.
func (r *Registry) Leave(sess *Session, topic Topic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(sess, topic)
}

// LeaveAll removes every subscription held by sess, in O(joined topics).
// Called synchronously on disconnect; safe to call more than once.
func (r *Registry) LeaveAll(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for topic := range r.joined[sess] {
		r.leaveLocked(sess, topic)
	}
}

func (r *Registry) leaveLocked(sess *Session, topic Topic) {
	if members, ok := r.topics[topic]; ok {
		delete(members, sess)
		if len(members) == 0 {
			delete(r.topics, topic)
		}
	}
	if topics, ok := r.joined[sess]; ok {
		delete(topics, topic)
		if len(topics) == 0 {
			delete(r.joined, sess)
		}
	}
}

// Members returns a snapshot of the sessions subscribed to topic. Callers
// iterate the copy, so joins and leaves racing with delivery never mutate
// it mid-iteration.
func (r *Registry) Members(topic Topic) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.topics[topic]
	out := make([]*Session, 0, len(members))
	for sess := range members {
		out = append(out, sess)
	}
	return out
}

// Topics returns a snapshot of the topics sess has joined.
func (r *Registry) Topics(sess *Session) []Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Topic, 0, len(r.joined[sess]))
	for topic := range r.joined[sess] {
		out = append(out, topic)
	}
	return out
}

// Rooms reports the membership count of every live topic, for the debug
// endpoint.
func (r *Registry) Rooms() map[Topic]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Topic]int, len(r.topics))
	for topic, members := range r.topics {
		out[topic] = len(members)
	}
	return out
}

// TopicCount reports how many topics currently have at least one member.
func (r *Registry) TopicCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics)
}
