package apiclient

import "sync"

// TokenStore holds the session's token pair. It is injected into the Client
// so tests and embedders can supply their own persistence.
type TokenStore interface {
	Tokens() (accessToken, refreshToken string)
	SetTokens(accessToken, refreshToken string)
	Clear()
}

// MemoryStore is the default in-process TokenStore. Safe for concurrent
// requests.
type MemoryStore struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *MemoryStore) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
}
