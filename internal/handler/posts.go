package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/post-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) postsCreate(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), *actor, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewDataResponse(dto.NewPostView(createdPost, actor, true)))
}

func (h *Handler) postsGet(c *gin.Context) {
	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPageQuery.Error()))
		return
	}

	posts, err := h.services.Post.FindAll(c.Request.Context(), input.Limit, input.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(dto.NewPostViews(posts, h.getActorFromRequest(c))))
}

func (h *Handler) postsGetByAuthor(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPageQuery.Error()))
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), userID, input.Limit, input.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(dto.NewPostViews(posts, h.getActorFromRequest(c))))
}

func (h *Handler) postsGetByID(c *gin.Context) {
	postID, ok := parseUUIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(dto.NewPostView(post, h.getActorFromRequest(c), true)))
}

func (h *Handler) postsEdit(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, ok := parseUUIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), *actor, postID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(dto.NewPostView(post, actor, true)))
}

func (h *Handler) postsDelete(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, ok := parseUUIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), *actor, postID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "post deleted"))
}

func (h *Handler) postsLike(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, ok := parseUUIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	result, err := h.services.Post.ToggleLike(c.Request.Context(), *actor, postID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(result))
}

func (h *Handler) postsRate(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, ok := parseUUIDParam(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.RatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	result, err := h.services.Post.Rate(c.Request.Context(), *actor, postID, input.Value)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDataResponse(result))
}
