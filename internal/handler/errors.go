package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/post-service/internal/dto"
	"github.com/BloggingApp/post-service/internal/service"
	"github.com/gin-gonic/gin"
)

const retryAfterSeconds = "5"

var (
	errNotAuthorized    = errors.New("user is not authorized")
	errInvalidPostID    = errors.New("invalid post ID")
	errInvalidUserID    = errors.New("invalid user ID")
	errInvalidID        = errors.New("invalid ID")
	errInvalidPageQuery = errors.New("limit and offset must be non-negative integers")
)

// respondError writes the status and envelope for an error returned by a
// service.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewBasicResponse(false, err.Error()))
	case errors.Is(err, service.ErrUnavailable):
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, dto.NewBasicResponse(false, service.ErrUnavailable.Error()))
	default:
		h.logger.Sugar().Errorf("unexpected error on %s %s: %s", c.Request.Method, c.FullPath(), err.Error())
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, service.ErrInternal.Error()))
	}
}
