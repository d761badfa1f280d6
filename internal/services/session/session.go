package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the cookie carrying the signed session token
const CookieName = "session"

var ErrInvalidToken = errors.New("invalid session token")

// Claims is the identity embedded in a session token
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 session tokens
type Manager struct {
	secret       []byte
	ttl          time.Duration
	secureCookie bool
	now          func() time.Time
}

// NewManager creates a session manager signing with secret
func NewManager(secret string, ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		secret:       []byte(secret),
		ttl:          ttl,
		secureCookie: secureCookie,
		now:          time.Now,
	}
}

// Issue returns a signed token bound to the given identity
func (m *Manager) Issue(userID, email string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Verify checks signature and expiry and returns the embedded identity
func (m *Manager) Verify(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// FromRequest verifies the session cookie on r, if any
func (m *Manager) FromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrInvalidToken
	}
	return m.Verify(cookie.Value)
}

// SetCookie writes the session cookie carrying token
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// HashPassword returns a salted bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
