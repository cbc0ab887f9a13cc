package handler

import (
	"net/http"

	"github.com/BloggingApp/post-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, ok := parseUUIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	result, err := h.services.Comment.Create(c.Request.Context(), *actor, postID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewDataResponse(result))
}

func (h *Handler) commentsDelete(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, ok0 := parseUUIDParam(c, "postID")
	commentID, ok1 := parseUUIDParam(c, "commentID")
	if !ok0 || !ok1 {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	result, err := h.services.Comment.Delete(c.Request.Context(), *actor, postID, commentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(result))
}

func (h *Handler) commentsLike(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, ok0 := parseUUIDParam(c, "postID")
	commentID, ok1 := parseUUIDParam(c, "commentID")
	if !ok0 || !ok1 {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	result, err := h.services.Comment.ToggleLike(c.Request.Context(), *actor, postID, commentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(result))
}
