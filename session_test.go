package main

import "testing"

func TestCreateAndGetSession(t *testing.T) {
	db := openTestDB(t)
	sm := NewSessionManager(db)

	sess := sm.CreateSession("lobby", "")
	if sess == nil {
		t.Fatal("CreateSession returned nil")
	}
	defer sess.Game.Stop()

	if sess.Game.MapName() != DefaultMapName {
		t.Errorf("map = %q", sess.Game.MapName())
	}
	if got := sm.GetSession(sess.ID); got != sess {
		t.Error("GetSession did not return the created session")
	}
	if got := sm.GetSession("bogus"); got != nil {
		t.Error("GetSession returned a session for a bogus id")
	}
}

func TestCreateSessionUnknownMap(t *testing.T) {
	db := openTestDB(t)
	sm := NewSessionManager(db)
	if sess := sm.CreateSession("lobby", "no-such-map"); sess != nil {
		sess.Game.Stop()
		t.Error("session created on a missing map")
	}
}

func TestSessionTeardownPersistsStats(t *testing.T) {
	db := openTestDB(t)
	authID, _ := db.CreatePlayer("alice", "h")
	sm := NewSessionManager(db)

	sess := sm.CreateSession("lobby", "")
	if sess == nil {
		t.Fatal("CreateSession returned nil")
	}
	p := sess.Game.AddPlayer("alice", authID)
	if p == nil {
		t.Fatal("AddPlayer returned nil")
	}
	p.Frags = 7
	p.Deaths = 2

	sm.RemovePlayer(sess.ID, p.ID)

	frags, deaths, err := db.GetStats(authID)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if frags != 7 || deaths != 2 {
		t.Errorf("persisted stats = (%d, %d)", frags, deaths)
	}
	// The emptied session is gone.
	if sm.GetSession(sess.ID) != nil {
		t.Error("empty session not torn down")
	}
}

func TestListSessions(t *testing.T) {
	db := openTestDB(t)
	sm := NewSessionManager(db)

	if got := sm.ListSessions(); len(got) != 0 {
		t.Errorf("fresh manager lists %d sessions", len(got))
	}

	a := sm.CreateSession("alpha", "")
	b := sm.CreateSession("beta", "")
	defer a.Game.Stop()
	defer b.Game.Stop()
	a.Game.AddPlayer("p1", 0)

	list := sm.ListSessions()
	if len(list) != 2 {
		t.Fatalf("listed %d sessions, want 2", len(list))
	}
	byName := map[string]SessionInfo{}
	for _, si := range list {
		byName[si.Name] = si
	}
	if byName["alpha"].Players != 1 || byName["beta"].Players != 0 {
		t.Errorf("player counts: %+v", byName)
	}
}
