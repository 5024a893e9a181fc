package handler

import (
	"net/http"
	"time"

	"carteira/internal/auth"
	"carteira/internal/config"
	"carteira/internal/logutil"
	"carteira/internal/middleware"
	"carteira/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves /auth. It is the only place auth.Error kinds become
// HTTP statuses.
type AuthHandler struct {
	svc     *auth.Service
	cookies config.SessionConfig
}

func NewAuthHandler(svc *auth.Service, cookies config.SessionConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

type signUpReq struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Name     string `json:"name" binding:"required,min=2,max=64"`
}

type signInReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateMeReq struct {
	Name string `json:"name" binding:"required,min=2,max=64"`
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=128"`
}

type verifyResp struct {
	User   *auth.User `json:"user"`
	UserID string     `json:"userId"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindMessage(err))
		return
	}

	sess, err := h.svc.SignUp(c.Request.Context(), auth.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSession(c, sess)
	util.Success(c, http.StatusOK, sess)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindMessage(err))
		return
	}

	sess, err := h.svc.SignIn(c.Request.Context(), auth.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSession(c, sess)
	util.Success(c, http.StatusOK, sess)
}

// Me runs behind SessionAuth.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, user)
}

// Verify checks a bearer token without the session middleware.
func (h *AuthHandler) Verify(c *gin.Context) {
	userID, err := h.svc.VerifyToken(middleware.BearerToken(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, verifyResp{User: user, UserID: userID})
}

// SignOut clears the session cookies. Tokens already handed out stay valid
// until they expire.
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookies.UserCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(h.cookies.TokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	util.Success(c, http.StatusOK, nil)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req updateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindMessage(err))
		return
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), userID, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindMessage(err))
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		h.fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, true)
}

func (h *AuthHandler) setSession(c *gin.Context, sess *auth.Session) {
	maxAge := int(h.svc.TokenTTL() / time.Second)
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookies.UserCookie, sess.User.ID, maxAge, "/", "", h.cookies.Secure, true)
	c.SetCookie(h.cookies.TokenCookie, sess.Token, maxAge, "/", "", h.cookies.Secure, true)
}

// fail logs the failure kind and cause, then answers with the client-safe
// message for the kind. Both credential failures share one message.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	ae := auth.AsError(err)
	status, code, msg := authStatus(ae.Kind)

	log := logutil.GetOrDefault(c.Request.Context())
	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("kind", ae.Kind.String()).
		AnErr("cause", ae.Err).
		Msg("Auth request failed")

	util.Error(c, status, code, msg)
}

func authStatus(kind auth.Kind) (status, code int, msg string) {
	switch kind {
	case auth.KindInvalidCredentials, auth.KindUserNotFound:
		return http.StatusUnauthorized, util.CodeAuth, auth.ErrInvalidCredentials.Message
	case auth.KindEmailAlreadyExists:
		return http.StatusConflict, util.CodeConflict, auth.ErrEmailAlreadyExists.Message
	case auth.KindUnauthorized:
		return http.StatusUnauthorized, util.CodeAuth, auth.ErrUnauthorized.Message
	}
	return http.StatusInternalServerError, util.CodeServerErr, auth.ErrDatabase.Message
}
