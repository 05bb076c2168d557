package main

import (
	"encoding/json"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"
)

// ServeSessionQR renders a QR code PNG of a session's join URL, so a second
// device can jump into a running session by scanning the screen.
func ServeSessionQR(hub *Hub, w http.ResponseWriter, r *http.Request) {
	sid := r.URL.Query().Get("sid")
	if sid == "" || hub.sessions.GetSession(sid) == nil {
		http.Error(w, "no such session", http.StatusNotFound)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	joinURL := scheme + "://" + r.Host + "/#join=" + sid

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "qr encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// ServeLeaderboard returns the top accounts as JSON.
func ServeLeaderboard(hub *Hub, w http.ResponseWriter, r *http.Request) {
	entries, err := hub.db.GetLeaderboard(25)
	if err != nil {
		http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
