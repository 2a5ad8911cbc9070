// Package controller holds what the HTTP controllers share.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/service"
	"github.com/lshigami/proctorexam/internal/session"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a service error kind to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Internal errors are logged
// and never leak their text.
func RespondError(ctx *gin.Context, op string, err error) {
	status := StatusFor(err)
	message := service.UserMessage(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(op + ": internal error")
		message = "Internal server error"
	} else {
		log.Debug().Err(err).Int("status", status).Msg(op + ": request rejected")
	}
	ctx.JSON(status, dto.ErrorResponse{Message: message})
}

// BindError answers 400 for a body that failed gin binding.
func BindError(ctx *gin.Context, op string, err error) {
	log.Warn().Err(err).Msg(op + ": failed to bind request")
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
}

// MustSession returns the request session set by the auth middleware.
func MustSession(ctx *gin.Context) (session.Context, bool) {
	sc, ok := session.From(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "authentication required"})
	}
	return sc, ok
}
