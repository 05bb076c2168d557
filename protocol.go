package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgInput    = "input"
	MsgCreate   = "create" // create session
	MsgList     = "list"   // list sessions
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgGuest    = "guest"
)

// Server -> Client message types
const (
	MsgWelcome  = "welcome"
	MsgJoined   = "joined"
	MsgCreated  = "created"
	MsgSessions = "sessions"
	MsgDeath    = "death"
	MsgKill     = "kill"
	MsgAuthOK   = "auth_ok"
	MsgError    = "error"
	// State snapshots are not enveloped: they go out as binary
	// msgpack-encoded StateMsg frames.
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids
// double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is sent by the client every tick or on change
type ClientInput struct {
	Turn   int  `json:"turn"` // -1, 0, +1
	Thrust bool `json:"th"`
	Fire   bool `json:"f"`
}

// JoinMsg is sent when a player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when a player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
	MapName     string `json:"map,omitempty"`
}

// AuthMsg carries register/login credentials or a stored token
type AuthMsg struct {
	Username string `json:"u,omitempty"`
	Password string `json:"p,omitempty"`
	Token    string `json:"tok,omitempty"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"u"`
	Token    string `json:"tok"`
}

// WelcomeMsg is sent to a player when they join a session
type WelcomeMsg struct {
	ID      string `json:"id"`
	MapName string `json:"map"`
}

// DeathMsg notifies a player they died
type DeathMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
}

// KillMsg is broadcast to all players in a session
type KillMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
	VictimID   string `json:"vid"`
	VictimName string `json:"vn"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	MapName string `json:"map"`
	Players int    `json:"players"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// Wire state below is msgpack-encoded and sent as binary frames. All
// coordinates are raw 16.16 fixed-point values; clients divide by 65536.

// PlayerState is broadcast per player each snapshot
type PlayerState struct {
	ID    string `msgpack:"id"`
	Name  string `msgpack:"n"`
	X     int32  `msgpack:"x"`
	Y     int32  `msgpack:"y"`
	Dir   int    `msgpack:"d"`
	HP    int    `msgpack:"hp"`
	MaxHP int    `msgpack:"mhp"`
	Frags int    `msgpack:"fr"`
	Alive bool   `msgpack:"a"`
}

// MobState is broadcast per mob
type MobState struct {
	ID    string `msgpack:"id"`
	X     int32  `msgpack:"x"`
	Y     int32  `msgpack:"y"`
	Dir   int    `msgpack:"d"`
	HP    int    `msgpack:"hp"`
	MaxHP int    `msgpack:"mhp"`
	Alive bool   `msgpack:"a"`
}

// MissileState is broadcast per missile
type MissileState struct {
	ID    string `msgpack:"id"`
	X     int32  `msgpack:"x"`
	Y     int32  `msgpack:"y"`
	Dir   int    `msgpack:"d"`
	Owner string `msgpack:"o"`
}

// ItemState is broadcast per item
type ItemState struct {
	ID string `msgpack:"id"`
	X  int32  `msgpack:"x"`
	Y  int32  `msgpack:"y"`
}

// StateMsg is the full snapshot broadcast
type StateMsg struct {
	Tick     uint64         `msgpack:"t"`
	Players  []PlayerState  `msgpack:"p"`
	Mobs     []MobState     `msgpack:"m"`
	Missiles []MissileState `msgpack:"ms"`
	Items    []ItemState    `msgpack:"i"`
}
