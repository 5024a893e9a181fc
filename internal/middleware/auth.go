package middleware

import (
	"net/http"
	"strings"

	"carteira/internal/auth"
	"carteira/internal/config"
	"carteira/internal/logutil"
	"carteira/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID  = "currentUserID"
	ctxAccount = "currentAccount"
)

// TokenVerifier resolves a session token to a user id.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// SessionAuth binds the caller's identity into the gin context.
//
// A bearer header wins when present. Otherwise both session cookies are
// required and the user id cookie must name the token's subject; a lone
// cookie is never trusted. The store is not touched.
func SessionAuth(verifier TokenVerifier, cookies config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, cookieUserID, ok := sessionEvidence(c, cookies)
		if !ok {
			reject(c, "no session evidence", nil)
			return
		}

		userID, err := verifier.VerifyToken(token)
		if err != nil {
			reject(c, "token rejected", err)
			return
		}
		if cookieUserID != "" && cookieUserID != userID {
			reject(c, "user cookie does not match token", nil)
			return
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func sessionEvidence(c *gin.Context, cookies config.SessionConfig) (token, cookieUserID string, ok bool) {
	if token = BearerToken(c); token != "" {
		return token, "", true
	}
	userID, _ := c.Cookie(cookies.UserCookie)
	token, _ = c.Cookie(cookies.TokenCookie)
	if userID == "" || token == "" {
		return "", "", false
	}
	return token, userID, true
}

func reject(c *gin.Context, reason string, err error) {
	log := logutil.GetOrDefault(c.Request.Context())
	ev := log.Info().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("reason", reason)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("Unauthenticated request")
	util.Error(c, http.StatusUnauthorized, util.CodeAuth, auth.ErrUnauthorized.Message)
}

// CurrentUserID returns the identity bound by SessionAuth.
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
