package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultMapName is the map sessions load when none is requested.
const DefaultMapName = "arena"

// DB wraps the SQLite database: accounts and stats, plus map geometry (the
// world-load input contract — vertices and wall records per map).
type DB struct {
	conn *sql.DB
}

// PlayerRow represents an account record.
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Frags    int    `json:"frags"`
	Deaths   int    `json:"deaths"`
}

// OpenDB opens (or creates) the SQLite database and seeds the built-in map
// when the maps table is empty.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL for better concurrency between the hub and HTTP handlers
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.seedDefaultMap(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		frags INTEGER NOT NULL DEFAULT 0,
		deaths INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS maps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS map_vertices (
		map_id INTEGER NOT NULL REFERENCES maps(id),
		idx INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		PRIMARY KEY (map_id, idx)
	);

	CREATE TABLE IF NOT EXISTS map_walls (
		map_id INTEGER NOT NULL REFERENCES maps(id),
		idx INTEGER NOT NULL,
		v1 INTEGER NOT NULL,
		v2 INTEGER NOT NULL,
		two_sided INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (map_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// seedDefaultMap installs the built-in arena when no maps exist: a 1024x1024
// boundary, four square pillars, and a two-sided divider down the middle.
func (db *DB) seedDefaultMap() error {
	var count int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM maps").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.SaveMap(defaultArena())
}

func defaultArena() *MapData {
	md := &MapData{
		Name: DefaultMapName,
		Vertices: []MapVertex{
			{0, 0}, {1024, 0}, {1024, 1024}, {0, 1024},
		},
		Walls: []MapWall{
			{V1: 0, V2: 1}, {V1: 1, V2: 2}, {V1: 2, V2: 3}, {V1: 3, V2: 0},
		},
	}

	// Four 64-unit pillars.
	for _, c := range [][2]int{{256, 256}, {704, 256}, {256, 704}, {704, 704}} {
		base := len(md.Vertices)
		md.Vertices = append(md.Vertices,
			MapVertex{c[0], c[1]},
			MapVertex{c[0] + 64, c[1]},
			MapVertex{c[0] + 64, c[1] + 64},
			MapVertex{c[0], c[1] + 64},
		)
		md.Walls = append(md.Walls,
			MapWall{V1: base, V2: base + 1},
			MapWall{V1: base + 1, V2: base + 2},
			MapWall{V1: base + 2, V2: base + 3},
			MapWall{V1: base + 3, V2: base},
		)
	}

	// A passable boundary splitting the arena; traces report it but
	// nothing is blocked by it.
	base := len(md.Vertices)
	md.Vertices = append(md.Vertices, MapVertex{512, 128}, MapVertex{512, 896})
	md.Walls = append(md.Walls, MapWall{V1: base, V2: base + 1, TwoSided: true})

	return md
}

// SaveMap stores a map's geometry, replacing any map of the same name.
func (db *DB) SaveMap(md *MapData) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var oldID int64
	err = tx.QueryRow("SELECT id FROM maps WHERE name = ?", md.Name).Scan(&oldID)
	if err == nil {
		if _, err := tx.Exec("DELETE FROM map_vertices WHERE map_id = ?", oldID); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM map_walls WHERE map_id = ?", oldID); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM maps WHERE id = ?", oldID); err != nil {
			return err
		}
	} else if err != sql.ErrNoRows {
		return err
	}

	res, err := tx.Exec("INSERT INTO maps (name) VALUES (?)", md.Name)
	if err != nil {
		return err
	}
	mapID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, v := range md.Vertices {
		if _, err := tx.Exec(
			"INSERT INTO map_vertices (map_id, idx, x, y) VALUES (?, ?, ?, ?)",
			mapID, i, v.X, v.Y,
		); err != nil {
			return err
		}
	}
	for i, w := range md.Walls {
		ts := 0
		if w.TwoSided {
			ts = 1
		}
		if _, err := tx.Exec(
			"INSERT INTO map_walls (map_id, idx, v1, v2, two_sided) VALUES (?, ?, ?, ?, ?)",
			mapID, i, w.V1, w.V2, ts,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadMap reads a map's geometry. An empty name loads the default map.
func (db *DB) LoadMap(name string) (*MapData, error) {
	if name == "" {
		name = DefaultMapName
	}

	var mapID int64
	err := db.conn.QueryRow("SELECT id FROM maps WHERE name = ?", name).Scan(&mapID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("map %q not found", name)
	}
	if err != nil {
		return nil, err
	}

	md := &MapData{Name: name}

	rows, err := db.conn.Query(
		"SELECT x, y FROM map_vertices WHERE map_id = ? ORDER BY idx", mapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var v MapVertex
		if err := rows.Scan(&v.X, &v.Y); err != nil {
			return nil, err
		}
		md.Vertices = append(md.Vertices, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	wrows, err := db.conn.Query(
		"SELECT v1, v2, two_sided FROM map_walls WHERE map_id = ? ORDER BY idx", mapID)
	if err != nil {
		return nil, err
	}
	defer wrows.Close()
	for wrows.Next() {
		var w MapWall
		var ts int
		if err := wrows.Scan(&w.V1, &w.V2, &ts); err != nil {
			return nil, err
		}
		w.TwoSided = ts != 0
		md.Walls = append(md.Walls, w)
	}
	return md, wrows.Err()
}

// ListMaps returns the names of all stored maps.
func (db *DB) ListMaps() ([]string, error) {
	rows, err := db.conn.Query("SELECT name FROM maps ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// CreatePlayer creates a new account and its stats row.
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// CreateGuest creates a guest account (no password).
func (db *DB) CreateGuest(username string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, is_guest) VALUES (?, 1)",
		username,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// GetPlayerByUsername returns an account, or nil when it does not exist.
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UsernameExists checks whether a username is taken.
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// AddStats accumulates a play session's frags and deaths onto an account.
func (db *DB) AddStats(playerID int64, frags, deaths int) error {
	_, err := db.conn.Exec(
		"UPDATE stats SET frags = frags + ?, deaths = deaths + ? WHERE player_id = ?",
		frags, deaths, playerID,
	)
	return err
}

// GetStats returns (frags, deaths) for an account.
func (db *DB) GetStats(playerID int64) (int, int, error) {
	var frags, deaths int
	err := db.conn.QueryRow(
		"SELECT frags, deaths FROM stats WHERE player_id = ?", playerID,
	).Scan(&frags, &deaths)
	return frags, deaths, err
}

// GetLeaderboard returns top non-guest accounts by frags.
func (db *DB) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT p.username, s.frags, s.deaths
		FROM stats s JOIN players p ON p.id = s.player_id
		WHERE p.is_guest = 0
		ORDER BY s.frags DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Frags, &e.Deaths); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetSetting returns a settings value, or "" when unset.
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow(
		"SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting stores a settings value.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
