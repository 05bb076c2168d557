package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

func startTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hub := NewHub(db)
	go hub.Run()

	srv := httptest.NewServer(SetupRoutes(hub))
	t.Cleanup(srv.Close)
	return srv, hub
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendMsg(t *testing.T, conn *websocket.Conn, typ string, data interface{}) {
	t.Helper()
	raw, _ := json.Marshal(data)
	env := InEnvelope{T: typ, D: raw}
	if err := conn.WriteJSON(env); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

// readJSONUntil reads text frames until one of the given type arrives,
// skipping binary state frames.
func readJSONUntil(t *testing.T, conn *websocket.Conn, typ string) json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		if kind != websocket.TextMessage {
			continue
		}
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("bad envelope: %s", raw)
		}
		if env.T == MsgError {
			t.Fatalf("server error while waiting for %q: %s", typ, env.D)
		}
		if env.T == typ {
			return env.D
		}
	}
}

func TestGuestJoinAndStateStream(t *testing.T) {
	srv, _ := startTestServer(t)
	conn := dialWS(t, srv)

	sendMsg(t, conn, MsgGuest, struct{}{})
	var authOK AuthOKMsg
	if err := json.Unmarshal(readJSONUntil(t, conn, MsgAuthOK), &authOK); err != nil {
		t.Fatalf("auth_ok: %v", err)
	}
	if authOK.PlayerID == 0 || !strings.HasPrefix(authOK.Username, "guest_") {
		t.Fatalf("guest auth = %+v", authOK)
	}

	sendMsg(t, conn, MsgCreate, CreateMsg{Name: "tester", SessionName: "duel"})
	var created SessionInfo
	if err := json.Unmarshal(readJSONUntil(t, conn, MsgCreated), &created); err != nil {
		t.Fatalf("created: %v", err)
	}
	if created.MapName != DefaultMapName {
		t.Errorf("session map = %q", created.MapName)
	}

	var welcome WelcomeMsg
	if err := json.Unmarshal(readJSONUntil(t, conn, MsgWelcome), &welcome); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if welcome.ID == "" {
		t.Fatal("empty player id in welcome")
	}

	sendMsg(t, conn, MsgInput, ClientInput{Turn: 1, Thrust: true})

	// The game loop broadcasts binary snapshots; one must arrive shortly.
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for state: %v", err)
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		var state StateMsg
		if err := msgpack.Unmarshal(raw, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if len(state.Players) != 1 || state.Players[0].ID != welcome.ID {
			t.Fatalf("snapshot players = %+v", state.Players)
		}
		return
	}
}

func TestRegisterLoginOverWS(t *testing.T) {
	srv, _ := startTestServer(t)

	conn := dialWS(t, srv)
	sendMsg(t, conn, MsgRegister, AuthMsg{Username: "alice", Password: "secret123"})
	var reg AuthOKMsg
	if err := json.Unmarshal(readJSONUntil(t, conn, MsgAuthOK), &reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Token == "" {
		t.Fatal("register returned no token")
	}
	conn.Close()

	// Token login on a fresh connection.
	conn2 := dialWS(t, srv)
	sendMsg(t, conn2, MsgLogin, AuthMsg{Token: reg.Token})
	var login AuthOKMsg
	if err := json.Unmarshal(readJSONUntil(t, conn2, MsgAuthOK), &login); err != nil {
		t.Fatalf("token login: %v", err)
	}
	if login.PlayerID != reg.PlayerID || login.Username != "alice" {
		t.Errorf("token login = %+v", login)
	}
}

func TestSessionListOverWS(t *testing.T) {
	srv, hub := startTestServer(t)

	sess := hub.sessions.CreateSession("open-arena", "")
	if sess == nil {
		t.Fatal("CreateSession returned nil")
	}
	defer sess.Game.Stop()

	conn := dialWS(t, srv)
	sendMsg(t, conn, MsgList, struct{}{})
	var list []SessionInfo
	if err := json.Unmarshal(readJSONUntil(t, conn, MsgSessions), &list); err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(list) != 1 || list[0].Name != "open-arena" {
		t.Errorf("session list = %+v", list)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv, hub := startTestServer(t)

	id, _ := hub.db.CreatePlayer("alice", "h")
	hub.db.AddStats(id, 9, 1)

	resp, err := http.Get(srv.URL + "/leaderboard")
	if err != nil {
		t.Fatalf("GET /leaderboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var entries []LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 1 || entries[0].Username != "alice" || entries[0].Frags != 9 {
		t.Errorf("leaderboard = %+v", entries)
	}
}

func TestQREndpoint(t *testing.T) {
	srv, hub := startTestServer(t)

	resp, err := http.Get(srv.URL + "/qr?sid=bogus")
	if err != nil {
		t.Fatalf("GET /qr: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("bogus session status = %d", resp.StatusCode)
	}

	sess := hub.sessions.CreateSession("qr-test", "")
	defer sess.Game.Stop()

	resp, err = http.Get(srv.URL + "/qr?sid=" + sess.ID)
	if err != nil {
		t.Fatalf("GET /qr: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
}
