// Package handler holds the gin handlers behind the JSON API.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"carteira/internal/logutil"
	"carteira/internal/middleware"
	"carteira/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const msgInternal = "internal error, please try again"

// currentUserID aborts with 401 when the session middleware did not run.
func currentUserID(c *gin.Context) (string, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
	}
	return id, ok
}

// serverError logs err with the request coordinates and answers a detail-free 500.
func serverError(c *gin.Context, err error, what string) {
	log := logutil.GetOrDefault(c.Request.Context())
	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg(what)
	util.Error(c, http.StatusInternalServerError, util.CodeServerErr, msgInternal)
}

func badRequest(c *gin.Context, msg string) {
	util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
}

// bindMessage turns a binding error into a client message naming the field
// and the failed rule. Submitted values are never echoed.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

type pageResp[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// pagination reads page / page_size; bad values fall back to the defaults.
func pagination(c *gin.Context, defaultSize int) (page, size, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if size <= 0 || size > 100 {
		size = defaultSize
	}
	return page, size, (page - 1) * size
}
