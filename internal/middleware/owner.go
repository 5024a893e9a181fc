package middleware

import (
	"context"
	"errors"
	"net/http"

	"carteira/internal/logutil"
	"carteira/internal/models"
	"carteira/internal/store"
	"carteira/internal/util"

	"github.com/gin-gonic/gin"
)

// AccountLoader loads an account by id, returning store.ErrNotFound when absent.
type AccountLoader interface {
	Get(ctx context.Context, id string) (*models.Account, error)
}

// RequireAccountOwner loads the account named by the :id route param.
// Missing accounts are 404, accounts of someone else are 403; on success
// the loaded account is available through CurrentAccount.
// It must run after SessionAuth.
func RequireAccountOwner(accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
			return
		}

		acc, err := accounts.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
				return
			}
			log := logutil.GetOrDefault(c.Request.Context())
			log.Error().Err(err).
				Str("method", c.Request.Method).
				Str("path", c.FullPath()).
				Msg("Unable to load account")
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error, please try again")
			return
		}

		if acc.OwnerID != userID {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "you do not have access to this account")
			return
		}

		c.Set(ctxAccount, acc)
		c.Next()
	}
}

// CurrentAccount returns the account attached by RequireAccountOwner.
func CurrentAccount(c *gin.Context) (*models.Account, bool) {
	v, ok := c.Get(ctxAccount)
	if !ok {
		return nil, false
	}
	acc, ok := v.(*models.Account)
	return acc, ok && acc != nil
}
