package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/session"
	"github.com/dkeye/Classroom/internal/domain"
)

var errNoSession = errors.New("no session")

var statusByError = []struct {
	err    error
	status int
}{
	{errNoSession, http.StatusConflict},
	{domain.ErrAuth, http.StatusUnauthorized},
	{domain.ErrPermissionDenied, http.StatusForbidden},
	{domain.ErrCaptureDenied, http.StatusForbidden},
	{domain.ErrConcurrencyConflict, http.StatusConflict},
	{domain.ErrActionPending, http.StatusConflict},
	{domain.ErrClassNotStarted, http.StatusConflict},
	{domain.ErrNotEntered, http.StatusConflict},
	{session.ErrAlreadyEntered, http.StatusConflict},
	{domain.ErrStaleSession, http.StatusGone},
	{domain.ErrMemberNotFound, http.StatusNotFound},
	{domain.ErrInvalidCapability, http.StatusBadRequest},
	{domain.ErrUsernameEmpty, http.StatusBadRequest},
	{domain.ErrUsernameTooLong, http.StatusBadRequest},
	{domain.ErrUserUUIDEmpty, http.StatusBadRequest},
	{domain.ErrUserUUIDTooLong, http.StatusBadRequest},
	{domain.ErrNetwork, http.StatusBadGateway},
	{domain.ErrRemoteRejected, http.StatusBadGateway},
}

func statusOf(err error) int {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusOf(err)
	body := gin.H{"error": err.Error()}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		body["code"] = re.Code
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
