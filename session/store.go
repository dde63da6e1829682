// Package session owns the per-user chat state: the pantry being tracked and
// the conversation history replayed to the model on every turn. Sessions live
// as long as the process; there is no eviction and no persistence.
package session

import (
	"sync"

	"kitchenagent"
)

// Session is the pair of pantry state and conversation history for one user.
// A session's fields are created together and share the store key; callers
// mutate them only through the methods below.
//
// Turns for the same user are not serialized: two concurrent turns race on
// read-modify-write of the pantry and history (last-write-wins). Fixing that
// would need a per-session mutex or a single-writer queue.
type Session struct {
	Pantry  kitchenagent.PantryState
	History []kitchenagent.ChatMessage
}

// AddIngredients appends newly reported ingredients to the pantry. There is no
// merge by name; repeated reports produce duplicate entries.
func (s *Session) AddIngredients(ings []kitchenagent.Ingredient) {
	s.Pantry.Ingredients = append(s.Pantry.Ingredients, ings...)
}

// SetNumPeople overwrites the tracked headcount.
func (s *Session) SetNumPeople(n int) {
	s.Pantry.NumPeople = n
}

// Append records one turn message at the end of the conversation history.
func (s *Session) Append(role, text string) {
	s.History = append(s.History, kitchenagent.ChatMessage{Role: role, Content: text})
}

// Inventory returns a copy of the current ingredient list, never nil.
func (s *Session) Inventory() []kitchenagent.Ingredient {
	out := make([]kitchenagent.Ingredient, len(s.Pantry.Ingredients))
	copy(out, s.Pantry.Ingredients)
	return out
}

// Store maps user identifiers to their sessions. The map itself is guarded so
// concurrent turns for different users are safe; the key space is unbounded.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for userID, creating one with an empty
// pantry and empty history on first sight. Repeated calls with the same
// identifier return the same session.
func (st *Store) GetOrCreate(userID string) *Session {
	st.mu.RLock()
	sess, ok := st.sessions[userID]
	st.mu.RUnlock()
	if ok {
		return sess
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[userID]; ok {
		return sess
	}
	sess = &Session{
		Pantry:  kitchenagent.PantryState{Ingredients: make([]kitchenagent.Ingredient, 0)},
		History: make([]kitchenagent.ChatMessage, 0),
	}
	st.sessions[userID] = sess
	return sess
}

// Len reports how many sessions the store currently holds.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
