package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"carteira/internal/config"
	"carteira/internal/models"
	"carteira/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCookies = config.SessionConfig{UserCookie: "uid", TokenCookie: "tok"}

// mapVerifier accepts the tokens it knows.
type mapVerifier map[string]string

func (m mapVerifier) VerifyToken(token string) (string, error) {
	if id, ok := m[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

type mapAccounts map[string]*models.Account

func (m mapAccounts) Get(ctx context.Context, id string) (*models.Account, error) {
	if acc, ok := m[id]; ok {
		return acc, nil
	}
	return nil, store.ErrNotFound
}

type memAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
	paths   []string
}

func (m *memAudit) Record(ctx context.Context, entry models.AuditLog, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	m.paths = append(m.paths, path)
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionEngine() *gin.Engine {
	r := gin.New()
	r.Use(SessionAuth(mapVerifier{"good": "user-1"}, testCookies))
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	h := sessionEngine()

	apitest.New().Handler(h).Get("/whoami").
		Header("Authorization", "Bearer good").
		Expect(t).Status(http.StatusOK).Body("user-1").End()

	apitest.New().Handler(h).Get("/whoami").
		Cookie("uid", "user-1").Cookie("tok", "good").
		Expect(t).Status(http.StatusOK).Body("user-1").End()

	cases := map[string]*apitest.Request{
		"nothing":           apitest.New().Handler(h).Get("/whoami"),
		"bad bearer":        apitest.New().Handler(h).Get("/whoami").Header("Authorization", "Bearer nope"),
		"basic scheme":      apitest.New().Handler(h).Get("/whoami").Header("Authorization", "Basic good"),
		"user cookie only":  apitest.New().Handler(h).Get("/whoami").Cookie("uid", "user-1"),
		"token cookie only": apitest.New().Handler(h).Get("/whoami").Cookie("tok", "good"),
		"mismatched user":   apitest.New().Handler(h).Get("/whoami").Cookie("uid", "user-2").Cookie("tok", "good"),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			req.Expect(t).
				Status(http.StatusUnauthorized).
				Assert(jsonpath.Equal("$.code", float64(40101))).
				Assert(jsonpath.Equal("$.message", "not authenticated")).
				End()
		})
	}
}

func TestRequireAccountOwner(t *testing.T) {
	accounts := mapAccounts{"acc-1": {ID: "acc-1", OwnerID: "owner"}}

	r := gin.New()
	r.Use(SessionAuth(mapVerifier{"owner-token": "owner", "other-token": "other"}, testCookies))
	r.GET("/accounts/:id", RequireAccountOwner(accounts), func(c *gin.Context) {
		acc, ok := CurrentAccount(c)
		require.True(t, ok)
		c.String(http.StatusOK, acc.ID)
	})

	apitest.New().Handler(r).Get("/accounts/acc-1").
		Header("Authorization", "Bearer owner-token").
		Expect(t).Status(http.StatusOK).Body("acc-1").End()

	apitest.New().Handler(r).Get("/accounts/acc-1").
		Header("Authorization", "Bearer other-token").
		Expect(t).Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.code", float64(40301))).
		End()

	apitest.New().Handler(r).Get("/accounts/missing").
		Header("Authorization", "Bearer other-token").
		Expect(t).Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.code", float64(40401))).
		End()
}

func TestAudit(t *testing.T) {
	rec := &memAudit{}

	r := gin.New()
	r.GET("/public", Audit(rec), func(c *gin.Context) { c.Status(http.StatusOK) })
	authed := r.Group("", SessionAuth(mapVerifier{"good": "user-1"}, testCookies), Audit(rec))
	authed.POST("/private", func(c *gin.Context) { c.Status(http.StatusCreated) })

	apitest.New().Handler(r).Get("/public").Expect(t).Status(http.StatusOK).End()
	apitest.New().Handler(r).Post("/private").
		Header("Authorization", "Bearer good").
		Query("secret", "x").
		JSON(`{"password":"hunter2"}`).
		Expect(t).Status(http.StatusCreated).End()

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "user-1", rec.entries[0].UserID)
	assert.Equal(t, http.MethodPost, rec.entries[0].Method)
	assert.Equal(t, http.StatusCreated, rec.entries[0].Status)
	assert.Equal(t, "/private", rec.paths[0])
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(testLogger(t)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	res := apitest.New().Handler(r).Get("/ping").
		Expect(t).Status(http.StatusNoContent).End()
	assert.NotEmpty(t, res.Response.Header.Get(RequestIDHeader))
}

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t))
}
