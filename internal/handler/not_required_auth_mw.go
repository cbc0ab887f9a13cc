package handler

import (
	"github.com/gin-gonic/gin"
)

// notRequiredAuthMiddleware attaches the actor when a valid token is sent and
// lets the request through either way.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.Next()
		return
	}

	actor, err := h.getActorFromAccessToken(accessToken)
	if err != nil {
		c.Next()
		return
	}

	c.Set(ACTOR_KEY, *actor)

	c.Next()
}
