package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"goodlife/internal/domain/privilege"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "goodlife_session"

// DefaultSessionTTL bounds how long a portal sign-in lasts.
const DefaultSessionTTL = 12 * time.Hour

var (
	ErrNoSession      = errors.New("please sign in to continue")
	ErrSessionRevoked = errors.New("session has been signed out")
)

type contextKey string

const sessionContextKey contextKey = "session"

// Session is the signed-in identity restored from the session token on every request.
type Session struct {
	ID          string
	StaffID     string
	Email       string
	Role        privilege.Role
	CurrentPage string
	// LastChecked is when the announcement banner was last refreshed; zero before the first check.
	LastChecked time.Time
	ExpiresAt   time.Time
}

// sessionClaims is the JWT payload.
type sessionClaims struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	Page        string `json:"page,omitempty"`
	LastChecked int64  `json:"lck,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens. Tokens are stateless;
// the manager only remembers which ids are live and which were signed out.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time

	mu      sync.Mutex
	live    map[string]time.Time // id -> expiry
	revoked map[string]time.Time
}

// NewSessions creates a session manager.
// PRE: secret is at least 32 bytes
// POST: ttl <= 0 falls back to DefaultSessionTTL
func NewSessions(secret []byte, ttl time.Duration, secure bool) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		secret:  secret,
		ttl:     ttl,
		secure:  secure,
		now:     time.Now,
		live:    make(map[string]time.Time),
		revoked: make(map[string]time.Time),
	}
}

// Issue signs a token for s. A zero ID starts a new session; a set ID
// re-signs the existing one with updated fields and the original expiry.
// POST: returned Session carries ID and ExpiresAt
func (m *Sessions) Issue(s Session) (string, Session, error) {
	now := m.now()
	if s.ID == "" {
		s.ID = uuid.NewString()
		s.ExpiresAt = now.Add(m.ttl)
	}
	claims := sessionClaims{
		Email: s.Email,
		Role:  string(s.Role),
		Page:  s.CurrentPage,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.StaffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	if !s.LastChecked.IsZero() {
		claims.LastChecked = s.LastChecked.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Session{}, err
	}
	m.mu.Lock()
	m.live[s.ID] = s.ExpiresAt
	m.mu.Unlock()
	return token, s, nil
}

// Parse verifies a token and restores its session.
// POST: revoked and expired tokens are rejected
func (m *Sessions) Parse(token string) (Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, err
	}
	role, err := privilege.ParseRole(claims.Role)
	if err != nil || !role.IsPortalRole() {
		return Session{}, ErrNoSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, gone := m.revoked[claims.ID]; gone {
		return Session{}, ErrSessionRevoked
	}
	s := Session{
		ID:          claims.ID,
		StaffID:     claims.Subject,
		Email:       claims.Email,
		Role:        role,
		CurrentPage: claims.Page,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if claims.LastChecked > 0 {
		s.LastChecked = time.Unix(claims.LastChecked, 0)
	}
	// Sessions signed before a restart count as live again once seen.
	m.live[s.ID] = s.ExpiresAt
	return s, nil
}

// Revoke signs a session out until its token would have expired anyway.
func (m *Sessions) Revoke(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, s.ID)
	m.revoked[s.ID] = s.ExpiresAt
}

// Active returns how many unexpired sessions are signed in.
// POST: expired live and revoked entries are pruned
func (m *Sessions) Active() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, exp := range m.live {
		if !exp.After(now) {
			delete(m.live, id)
		}
	}
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	return len(m.live)
}

// SetCookie issues or re-signs s and writes it as the session cookie.
func (m *Sessions) SetCookie(w http.ResponseWriter, s Session) (Session, error) {
	token, s, err := m.Issue(s)
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return s, nil
}

// ClearCookie removes the session cookie.
func (m *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Auth restores the session from the cookie into the request context.
// It does not block anonymous requests; RequireAuth does.
func Auth(m *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
				if s, err := m.Parse(c.Value); err == nil {
					r = r.WithContext(ContextWithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth answers 401 for requests without a session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			WriteError(w, http.StatusUnauthorized, ErrNoSession.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext returns the signed-in session, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	return s, ok
}

// ContextWithSession returns ctx carrying s.
func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// WriteError writes a JSON error body.
func WriteError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
