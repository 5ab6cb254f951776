package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	raw := "credentials:\n" +
		"  usernames:\n" +
		"    alice:\n" +
		"      name: Alice Analyst\n" +
		"      password: " + string(hash) + "\n" +
		"cookie:\n" +
		"  name: churn_auth\n" +
		"  key: test-signing-key\n" +
		"  expiry_days: 1\n"
	path := filepath.Join(t.TempDir(), "auth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	return cfg
}

func requestWith(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestParseConfigDefaultsAndValidation(t *testing.T) {
	cfg, err := ParseConfig([]byte("credentials: {usernames: {bob: {name: Bob, password: x}}}\ncookie: {key: k}\n"))
	require.NoError(t, err)
	assert.Equal(t, "churn_guard_auth", cfg.Cookie.Name)
	assert.Equal(t, 30, cfg.Cookie.ExpiryDays)

	_, err = ParseConfig([]byte("credentials: {usernames: {bob: {name: Bob}}}\n"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("cookie: {key: k}\n"))
	assert.Error(t, err)
}

func TestLoginAndCheck(t *testing.T) {
	a := New(testConfig(t))

	id, cookie, err := a.Login("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, StatusAuthenticated, id.Status)
	assert.Equal(t, "Alice Analyst", id.Name)
	require.NotNil(t, cookie)
	assert.Equal(t, "churn_auth", cookie.Name)

	got := a.Check(requestWith(cookie))
	assert.Equal(t, Identity{Status: StatusAuthenticated, Username: "alice", Name: "Alice Analyst"}, got)
}

func TestLoginRejected(t *testing.T) {
	a := New(testConfig(t))

	id, cookie, err := a.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, cookie)
	assert.Equal(t, StatusRejected, id.Status)

	_, _, err = a.Login("mallory", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCheckWithoutCookieIsUnknown(t *testing.T) {
	a := New(testConfig(t))
	assert.Equal(t, StatusUnknown, a.Check(requestWith(nil)).Status)
	assert.Equal(t, StatusUnknown, a.Check(requestWith(&http.Cookie{Name: "churn_auth", Value: " "})).Status)
}

func TestCheckRejectsTamperedAndExpiredTokens(t *testing.T) {
	a := New(testConfig(t))
	_, cookie, err := a.Login("alice", "s3cret")
	require.NoError(t, err)

	tampered := *cookie
	tampered.Value += "x"
	assert.Equal(t, StatusRejected, a.Check(requestWith(&tampered)).Status)

	a.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	assert.Equal(t, StatusRejected, a.Check(requestWith(cookie)).Status)
}

func TestLogoutClearsCookie(t *testing.T) {
	a := New(testConfig(t))
	c := a.Logout()
	assert.Equal(t, "churn_auth", c.Name)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}
