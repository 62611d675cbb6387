package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// Session ties a browser (via cookie) to its mounted Panel and Board.
type Session struct {
	//Token is only set when creating a new session. The store keeps only
	//the hash, so a looked up session has an empty Token.
	Token     string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu    sync.Mutex
	panel *Panel
	board *Board
}

// MountPanel tears down the current panel and mounts a fresh one.
func (s *Session) MountPanel() *Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel != nil {
		s.panel.Close()
	}
	s.panel = NewPanel()
	return s.panel
}

// Panel returns the mounted panel, mounting one if needed.
func (s *Session) Panel() *Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel == nil {
		s.panel = NewPanel()
	}
	return s.panel
}

// MountBoard tears down the current board and mounts a fresh one.
func (s *Session) MountBoard() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board != nil {
		s.board.Close()
	}
	s.board = NewBoard()
	return s.board
}

// Board returns the mounted board, mounting one if needed.
func (s *Session) Board() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board == nil {
		s.board = NewBoard()
	}
	return s.board
}

// Close tears down everything the session owns.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel != nil {
		s.panel.Close()
	}
	if s.board != nil {
		s.board.Close()
	}
}

const (
	// MinBytesPerToken is the minimum number of bytes for a session token
	MinBytesPerToken = 32
	// DefaultTokenLength is the default token length (32 bytes = 256 bits)
	DefaultTokenLength = 32
	// DefaultSessionTTL is how long an idle session is kept
	DefaultSessionTTL = 2 * time.Hour
)

// SessionStore keeps sessions in memory, keyed by token hash. Nothing is
// persisted: a restart drops every panel.
type SessionStore struct {
	BytesPerToken int
	TTL           time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		BytesPerToken: DefaultTokenLength,
		TTL:           ttl,
		sessions:      make(map[string]*Session),
		now:           time.Now,
	}
}

// Create starts a new session and returns it with its raw token set.
func (ss *SessionStore) Create() (*Session, error) {
	bytesPerToken := ss.BytesPerToken
	if bytesPerToken < MinBytesPerToken {
		bytesPerToken = MinBytesPerToken
	}
	token, err := ss.generateToken(bytesPerToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	now := ss.now()
	session := &Session{
		Token:     token,
		TokenHash: ss.hash(token),
		CreatedAt: now,
		ExpiresAt: now.Add(ss.TTL),
	}

	ss.mu.Lock()
	ss.sessions[session.TokenHash] = session
	ss.mu.Unlock()
	return session, nil
}

// ByToken looks up a live session and extends its expiry.
func (ss *SessionStore) ByToken(token string) (*Session, error) {
	tokenHash := ss.hash(token)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	session, ok := ss.sessions[tokenHash]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := ss.now()
	if !now.Before(session.ExpiresAt) {
		delete(ss.sessions, tokenHash)
		session.Close()
		return nil, ErrSessionExpired
	}
	session.ExpiresAt = now.Add(ss.TTL)
	return session, nil
}

// Delete closes and forgets the session behind token.
func (ss *SessionStore) Delete(token string) error {
	tokenHash := ss.hash(token)

	ss.mu.Lock()
	session, ok := ss.sessions[tokenHash]
	delete(ss.sessions, tokenHash)
	ss.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Close()
	return nil
}

// Sweep closes and removes expired sessions. It returns how many were removed.
func (ss *SessionStore) Sweep() int {
	now := ss.now()
	var expired []*Session

	ss.mu.Lock()
	for hash, session := range ss.sessions {
		if !now.Before(session.ExpiresAt) {
			expired = append(expired, session)
			delete(ss.sessions, hash)
		}
	}
	ss.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	return len(expired)
}

// Len returns the number of tracked sessions.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func (ss *SessionStore) generateToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Only the hash of a token is used as the map key
func (ss *SessionStore) hash(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.URLEncoding.EncodeToString(hash[:])
}
