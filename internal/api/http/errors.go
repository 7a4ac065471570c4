package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/fsagent/internal/service"
)

// ErrorResponse is the body of every failed structured call
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps an error code to an HTTP status
func StatusFor(code string) int {
	switch code {
	case "PATH_ESCAPE":
		return http.StatusForbidden
	case service.CodeUnsupportedAction, "NOT_FOUND":
		return http.StatusNotFound
	case service.CodeMalformed, service.CodeInvalidRequest, "NOT_A_DIRECTORY", "IS_A_DIRECTORY":
		return http.StatusBadRequest
	case "ALREADY_EXISTS", "DIRECTORY_NOT_EMPTY":
		return http.StatusConflict
	case service.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	code := service.ErrorCode(err)
	c.AbortWithStatusJSON(StatusFor(code), ErrorResponse{Code: code, Message: err.Error()})
}

func abortInvalid(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    service.CodeInvalidRequest,
		Message: err.Error(),
	})
}
