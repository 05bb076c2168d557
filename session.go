package main

import (
	"log"
	"sync"
)

const maxSessions = 50

// Session is one running arena: a loaded world plus its game loop.
type Session struct {
	ID   string
	Name string
	Game *Game
}

// SessionManager handles creation and lookup of sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	db       *DB
}

// NewSessionManager creates a session manager backed by the map database.
func NewSessionManager(db *DB) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		db:       db,
	}
}

// CreateSession loads the named map (or the default) and starts a game on
// it. Returns nil if the limit is reached or the map cannot be loaded.
func (sm *SessionManager) CreateSession(name, mapName string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	md, err := sm.db.LoadMap(mapName)
	if err != nil {
		log.Printf("load map %q: %v", mapName, err)
		return nil
	}
	world, err := NewWorld(md)
	if err != nil {
		log.Printf("build world %q: %v", mapName, err)
		return nil
	}

	sess := &Session{
		ID:   GenerateUUID(),
		Name: name,
		Game: NewGame(world),
	}
	sm.sessions[sess.ID] = sess
	go sess.Game.Run()
	return sess
}

// GetSession returns a session by ID.
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemovePlayer removes a player from a session, persists stats for
// authenticated accounts, and tears the session down when it empties.
func (sm *SessionManager) RemovePlayer(sessionID, playerID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}

	frags, deaths, authID := sess.Game.RemovePlayer(playerID)
	if authID != 0 {
		if err := sm.db.AddStats(authID, frags, deaths); err != nil {
			log.Printf("persist stats for %d: %v", authID, err)
		}
	}

	if sess.Game.PlayerCount() == 0 {
		sess.Game.Stop()
		sm.mu.Lock()
		delete(sm.sessions, sessionID)
		sm.mu.Unlock()
	}
}

// ListSessions returns info about all active sessions.
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			MapName: sess.Game.MapName(),
			Players: sess.Game.PlayerCount(),
		})
	}
	return list
}
