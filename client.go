package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 60
	maxNameLen        = 16
)

// Client represents a WebSocket connection.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	playerID   string
	sessionID  string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	// Auth state; zero/empty while unauthenticated.
	authPlayerID int64
	authUsername string
}

// NewClient creates a client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection. Binary state
// frames are marked with a 0xFF prefix byte by SendBinary.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON marshals and queues a JSON message; drops it if the client's
// buffer is full.
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	defer func() { recover() }() // send on closed channel during teardown
	select {
	case c.send <- data:
	default:
	}
}

// SendBinary queues a binary frame.
func (c *Client) SendBinary(data []byte) {
	framed := make([]byte, 0, len(data)+1)
	framed = append(framed, 0xFF)
	framed = append(framed, data...)
	defer func() { recover() }()
	select {
	case c.send <- framed:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage dispatches one incoming envelope.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.sendError("bad message")
		return
	}

	switch env.T {
	case MsgRegister:
		var m AuthMsg
		if err := json.Unmarshal(env.D, &m); err != nil {
			c.sendError("bad register")
			return
		}
		id, token, err := c.hub.auth.Register(m.Username, m.Password)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.authPlayerID = id
		c.authUsername = m.Username
		c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{PlayerID: id, Username: m.Username, Token: token}})

	case MsgLogin:
		var m AuthMsg
		if err := json.Unmarshal(env.D, &m); err != nil {
			c.sendError("bad login")
			return
		}
		var id int64
		var username, token string
		var err error
		if m.Token != "" {
			id, username, err = c.hub.auth.ValidateToken(m.Token)
			token = m.Token
		} else {
			id, token, err = c.hub.auth.Login(m.Username, m.Password, c.remoteAddr)
			username = m.Username
		}
		if err != nil {
			c.sendError("login failed")
			return
		}
		c.authPlayerID = id
		c.authUsername = username
		c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{PlayerID: id, Username: username, Token: token}})

	case MsgGuest:
		name := GenerateGuestName()
		id, err := c.hub.db.CreateGuest(name)
		if err != nil {
			c.sendError("could not create guest")
			return
		}
		c.authPlayerID = id
		c.authUsername = name
		c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{PlayerID: id, Username: name}})

	case MsgCreate:
		var m CreateMsg
		if err := json.Unmarshal(env.D, &m); err != nil {
			c.sendError("bad create")
			return
		}
		sess := c.hub.sessions.CreateSession(m.SessionName, m.MapName)
		if sess == nil {
			c.sendError("could not create session")
			return
		}
		c.SendJSON(Envelope{T: MsgCreated, Data: SessionInfo{
			ID: sess.ID, Name: sess.Name, MapName: sess.Game.MapName(),
		}})
		c.joinSession(sess, m.Name)

	case MsgJoin:
		var m JoinMsg
		if err := json.Unmarshal(env.D, &m); err != nil {
			c.sendError("bad join")
			return
		}
		sess := c.hub.sessions.GetSession(m.SessionID)
		if sess == nil {
			c.sendError("no such session")
			return
		}
		c.joinSession(sess, m.Name)

	case MsgList:
		c.SendJSON(Envelope{T: MsgSessions, Data: c.hub.sessions.ListSessions()})

	case MsgInput:
		if c.sessionID == "" {
			return
		}
		var input ClientInput
		if err := json.Unmarshal(env.D, &input); err != nil {
			return
		}
		if sess := c.hub.sessions.GetSession(c.sessionID); sess != nil {
			sess.Game.HandleInput(c.playerID, input)
		}

	case MsgLeave:
		if c.sessionID != "" {
			c.hub.sessions.RemovePlayer(c.sessionID, c.playerID)
			c.sessionID = ""
			c.playerID = ""
		}

	default:
		c.sendError("unknown message type")
	}
}

func (c *Client) joinSession(sess *Session, name string) {
	if c.sessionID != "" {
		c.sendError("already in a session")
		return
	}
	if name == "" {
		name = c.authUsername
	}
	if name == "" {
		name = "anon"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	p := sess.Game.AddPlayer(name, c.authPlayerID)
	if p == nil {
		c.sendError("session full")
		return
	}
	c.sessionID = sess.ID
	c.playerID = p.ID
	sess.Game.SetClient(p.ID, c)

	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{ID: p.ID, MapName: sess.Game.MapName()}})
	c.SendJSON(Envelope{T: MsgJoined, Data: SessionInfo{
		ID: sess.ID, Name: sess.Name, MapName: sess.Game.MapName(), Players: sess.Game.PlayerCount(),
	}})
}
