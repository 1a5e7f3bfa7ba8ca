package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	chat "market-chat/internal/pkg/chat/application/domain"
	"market-chat/internal/pkg/chat/application/usecase"
)

// rsData is the response envelope every chat endpoint returns: a stable
// machine code, a human message, and an optional payload.
type rsData struct {
	ResultCode string `json:"resultCode"`
	Msg        string `json:"msg"`
	Data       any    `json:"data"`
}

func respondOK(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, rsData{ResultCode: "200", Msg: msg, Data: data})
}

// respondError maps domain and use-case failures to HTTP. ServiceError codes
// carry their status class in the numeric prefix ("403-1" -> 403).
func respondError(c *gin.Context, err error) {
	var svcErr *chat.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(statusOf(svcErr.Code), rsData{ResultCode: svcErr.Code, Msg: svcErr.Msg})
		return
	}
	if errors.Is(err, usecase.ErrPersistence) {
		c.JSON(http.StatusInternalServerError, rsData{ResultCode: "500-1", Msg: "unexpected persistence error"})
		return
	}
	c.JSON(http.StatusBadRequest, rsData{ResultCode: "400-1", Msg: err.Error()})
}

func errBadPathParam(name string) error {
	return &chat.ServiceError{Code: "400-1", Msg: name + " must be a numeric id"}
}

func statusOf(code string) int {
	prefix, _, _ := strings.Cut(code, "-")
	if status, err := strconv.Atoi(prefix); err == nil && status >= 100 && status < 600 {
		return status
	}
	return http.StatusBadRequest
}
