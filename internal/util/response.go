package util

import (
	"github.com/gin-gonic/gin"
)

// Business error codes carried in every error body.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success writes data as the bare JSON body.
func Success(c *gin.Context, httpStatus int, data any) {
	c.JSON(httpStatus, data)
}

// Error writes the error envelope and aborts the handler chain.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{
		Code:    code,
		Message: msg,
	})
}
