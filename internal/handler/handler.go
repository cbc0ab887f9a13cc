package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BloggingApp/post-service/internal/model"
	"github.com/BloggingApp/post-service/internal/service"
	"github.com/BloggingApp/post-service/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const ACTOR_KEY = "actor"

type Handler struct {
	services     *service.Service
	logger       *zap.Logger
	accessSecret []byte
	clientOrigin string
}

func New(services *service.Service, logger *zap.Logger, accessSecret string, clientOrigin string) *Handler {
	return &Handler{
		services:     services,
		logger:       logger,
		accessSecret: []byte(accessSecret),
		clientOrigin: clientOrigin,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.requestLogger, h.metricsMiddleware)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.clientOrigin},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", h.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("", h.notRequiredAuthMiddleware, h.postsGet)
			posts.GET("/author/:userID", h.notRequiredAuthMiddleware, h.postsGetByAuthor)

			post := posts.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.PATCH("", h.authMiddleware, h.postsEdit)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/like", h.authMiddleware, h.postsLike)
				post.POST("/rate", h.authMiddleware, h.postsRate)
			}
		}

		comments := v1.Group("/comments")
		{
			postComments := comments.Group("/:postID")
			{
				postComments.POST("", h.authMiddleware, h.commentsCreate)

				comment := postComments.Group("/:commentID")
				{
					comment.DELETE("", h.authMiddleware, h.commentsDelete)
					comment.POST("/like", h.authMiddleware, h.commentsLike)
				}
			}
		}
	}

	return r
}

func (h *Handler) healthz(c *gin.Context) {
	if err := h.services.Post.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": service.ErrUnavailable.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *Handler) getActorFromAccessToken(accessToken string) (*model.Actor, error) {
	claims, err := utils.DecodeJWT(accessToken, h.accessSecret)
	if err != nil {
		return nil, err
	}

	return actorFromClaims(claims)
}

// actorFromClaims reads id, username and role. Unknown roles are treated as
// regular users.
func actorFromClaims(claims jwt.MapClaims) (*model.Actor, error) {
	idString, ok := utils.StringClaim(claims, "id")
	if !ok {
		return nil, errors.New("token has no id claim")
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	username, _ := utils.StringClaim(claims, "username")

	role := model.RoleUser
	if roleString, ok := utils.StringClaim(claims, "role"); ok && model.Role(strings.ToLower(roleString)) == model.RoleAdmin {
		role = model.RoleAdmin
	}

	return &model.Actor{
		ID:          id,
		DisplayName: username,
		Role:        role,
	}, nil
}

func (h *Handler) getActorFromRequest(c *gin.Context) *model.Actor {
	actorReq, ok := c.Get(ACTOR_KEY)
	if !ok {
		return nil
	}

	actor, ok := actorReq.(model.Actor)
	if !ok {
		return nil
	}

	return &actor
}
