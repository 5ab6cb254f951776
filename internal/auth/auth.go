package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Status string

const (
	StatusUnknown       Status = "unknown"
	StatusRejected      Status = "rejected"
	StatusAuthenticated Status = "authenticated"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Identity struct {
	Status   Status `json:"status"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Authenticator verifies passwords against bcrypt hashes and keeps the
// session in a signed HS256 cookie.
type Authenticator struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Authenticator {
	return &Authenticator{cfg: cfg, now: time.Now}
}

func (a *Authenticator) CookieName() string {
	return a.cfg.Cookie.Name
}

// Login checks the credentials and returns the cookie to set on success.
func (a *Authenticator) Login(username, password string) (Identity, *http.Cookie, error) {
	username = strings.TrimSpace(username)
	user, ok := a.cfg.Credentials.Usernames[username]
	if !ok || password == "" {
		return Identity{Status: StatusRejected}, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return Identity{Status: StatusRejected}, nil, ErrInvalidCredentials
	}

	now := a.now()
	expires := now.Add(time.Duration(a.cfg.Cookie.ExpiryDays) * 24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(a.cfg.Cookie.Key))
	if err != nil {
		return Identity{Status: StatusRejected}, nil, fmt.Errorf("sign session: %w", err)
	}

	cookie := &http.Cookie{
		Name:     a.cfg.Cookie.Name,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return Identity{Status: StatusAuthenticated, Username: username, Name: user.Name}, cookie, nil
}

// Logout returns an expired cookie that clears the session.
func (a *Authenticator) Logout() *http.Cookie {
	return &http.Cookie{
		Name:     a.cfg.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (a *Authenticator) Check(r *http.Request) Identity {
	c, err := r.Cookie(a.cfg.Cookie.Name)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return Identity{Status: StatusUnknown}
	}
	return a.Verify(c.Value)
}

func (a *Authenticator) Verify(raw string) Identity {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(token *jwt.Token) (any, error) {
		return []byte(a.cfg.Cookie.Key), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid {
		return Identity{Status: StatusRejected}
	}
	cl, ok := parsed.Claims.(*claims)
	if !ok {
		return Identity{Status: StatusRejected}
	}
	if _, known := a.cfg.Credentials.Usernames[cl.Subject]; !known {
		return Identity{Status: StatusRejected}
	}
	return Identity{Status: StatusAuthenticated, Username: cl.Subject, Name: cl.Name}
}
