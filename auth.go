package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost       = 12
	tokenLifetime    = 7 * 24 * time.Hour
	maxLoginAttempts = 5
	loginWindow      = time.Minute
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,16}$`)

var (
	errBadCredentials = errors.New("invalid username or password")
	errRateLimited    = errors.New("too many attempts, try again later")
)

// Auth handles registration, login, and token validation.
type Auth struct {
	db     *DB
	secret []byte

	rateMu   sync.Mutex
	attempts map[string][]time.Time
}

// NewAuth creates an Auth backed by the database. The JWT signing secret is
// persisted in settings so tokens survive restarts.
func NewAuth(db *DB) *Auth {
	a := &Auth{
		db:       db,
		attempts: make(map[string][]time.Time),
	}
	a.secret = a.loadOrCreateSecret()
	return a
}

func (a *Auth) loadOrCreateSecret() []byte {
	if s := a.db.GetSetting("jwt_secret"); s != "" {
		if b, err := hex.DecodeString(s); err == nil && len(b) == 32 {
			return b
		}
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("cannot generate jwt secret: %v", err)
	}
	if err := a.db.SetSetting("jwt_secret", hex.EncodeToString(b)); err != nil {
		log.Printf("warning: could not persist jwt secret: %v", err)
	}
	return b
}

// Register creates a new account and returns its id and a session token.
func (a *Auth) Register(username, password string) (int64, string, error) {
	if !usernameRe.MatchString(username) {
		return 0, "", errors.New("username must be 3-16 letters, digits or underscores")
	}
	if len(password) < 6 {
		return 0, "", errors.New("password must be at least 6 characters")
	}

	exists, err := a.db.UsernameExists(username)
	if err != nil {
		return 0, "", err
	}
	if exists {
		return 0, "", errors.New("username taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, "", err
	}

	id, err := a.db.CreatePlayer(username, string(hash))
	if err != nil {
		return 0, "", err
	}

	token, err := a.generateToken(id, username)
	if err != nil {
		return 0, "", err
	}
	return id, token, nil
}

// Login checks credentials and returns the account id and a session token.
// Attempts are rate limited per IP.
func (a *Auth) Login(username, password, ip string) (int64, string, error) {
	if !a.checkRate(ip) {
		return 0, "", errRateLimited
	}

	p, err := a.db.GetPlayerByUsername(username)
	if err != nil {
		return 0, "", err
	}
	if p == nil || p.PassHash == "" {
		// Burn a hash comparison so missing users cost the same as bad
		// passwords.
		bcrypt.CompareHashAndPassword(
			[]byte("$2a$12$000000000000000000000uGfHiJkLmNoPqRsTuVwXyZ012345678"),
			[]byte(password))
		return 0, "", errBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PassHash), []byte(password)) != nil {
		return 0, "", errBadCredentials
	}

	token, err := a.generateToken(p.ID, p.Username)
	if err != nil {
		return 0, "", err
	}
	return p.ID, token, nil
}

// ValidateToken parses a session token and returns the account id and name.
func (a *Auth) ValidateToken(tokenStr string) (int64, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", errors.New("invalid claims")
	}
	pid, ok := claims["pid"].(float64)
	if !ok {
		return 0, "", errors.New("invalid claims")
	}
	usr, ok := claims["usr"].(string)
	if !ok {
		return 0, "", errors.New("invalid claims")
	}
	return int64(pid), usr, nil
}

func (a *Auth) generateToken(playerID int64, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"pid": playerID,
		"usr": username,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	})
	return token.SignedString(a.secret)
}

// checkRate allows at most maxLoginAttempts per IP per loginWindow.
func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	cutoff := now.Add(-loginWindow)
	kept := a.attempts[ip][:0]
	for _, t := range a.attempts[ip] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= maxLoginAttempts {
		a.attempts[ip] = kept
		return false
	}
	a.attempts[ip] = append(kept, now)
	return true
}

// GenerateGuestName produces a random guest handle like "guest_3fa2c1".
func GenerateGuestName() string {
	return "guest_" + GenerateID(3)
}
