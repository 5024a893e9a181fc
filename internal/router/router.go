package router

import (
	"fmt"
	"io"
	"net/http"

	"carteira/internal/auth"
	"carteira/internal/config"
	"carteira/internal/handler"
	"carteira/internal/logutil"
	"carteira/internal/middleware"
	"carteira/internal/store"
	"carteira/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRouter wires stores, the auth service and handlers onto a gin engine.
// It fails when the token codec cannot be built, e.g. on an empty secret.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger zerolog.Logger) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	tokens, err := util.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	users := store.NewUserStore(db)
	accounts := store.NewAccountStore(db, cfg.Security.EncryptionKey)
	audit := store.NewAuditStore(db, cfg.Security.EncryptionKey)
	authSvc := auth.NewService(users, tokens)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger),
		gin.CustomRecoveryWithWriter(io.Discard, recovered),
	)

	api := r.Group(cfg.Server.BasePath)

	authHandler := handler.NewAuthHandler(authSvc, cfg.Session)
	api.POST("/auth/signup", authHandler.SignUp)
	api.POST("/auth/signin", authHandler.SignIn)
	api.GET("/auth/verify", authHandler.Verify)
	api.POST("/auth/signout", authHandler.SignOut)

	protected := api.Group("")
	protected.Use(
		middleware.SessionAuth(authSvc, cfg.Session),
		middleware.Audit(audit),
	)

	protected.GET("/auth/me", authHandler.Me)
	protected.PATCH("/auth/me", authHandler.UpdateMe)
	protected.POST("/auth/password", authHandler.ChangePassword)

	accountHandler := handler.NewAccountHandler(accounts)
	owned := middleware.RequireAccountOwner(accounts)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.GET("/accounts/:id", owned, accountHandler.Get)
	protected.PATCH("/accounts/:id", owned, accountHandler.Update)
	protected.DELETE("/accounts/:id", owned, accountHandler.Delete)

	logHandler := handler.NewLogHandler(accounts, audit)
	protected.GET("/history", logHandler.ListHistory)
	protected.GET("/logs", logHandler.ListLogs)

	exportHandler := handler.NewExportHandler(accounts)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r, nil
}

// recovered turns a panic into a detail-free 500.
func recovered(c *gin.Context, err any) {
	log := logutil.GetOrDefault(c.Request.Context())
	log.Error().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("panic", fmt.Sprint(err)).
		Msg("Recovered from panic")
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error, please try again")
}
