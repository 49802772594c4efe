package handler

import (
	"net/http"

	"clinic_booking/internal/middleware"
	"clinic_booking/internal/model"
	"clinic_booking/internal/service"

	"github.com/gin-gonic/gin"
)

// ArticleHandler handles article and comment requests.
type ArticleHandler struct {
	articleService service.ArticleService
	doctorService  service.DoctorService
	userService    service.UserService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(as service.ArticleService, ds service.DoctorService, us service.UserService) *ArticleHandler {
	return &ArticleHandler{articleService: as, doctorService: ds, userService: us}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req model.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	doctor, err := h.doctorService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), doctor, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "article published", "article": article})
}

func (h *ArticleHandler) ListArticles(c *gin.Context) {
	articles, err := h.articleService.ListArticles(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "articles": articles})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, comments, err := h.articleService.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "article": article, "comments": comments})
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req model.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	article, err := h.articleService.UpdateArticle(c.Request.Context(), c.Param("id"), actor.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "article updated", "article": article})
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	if err := h.articleService.DeleteArticle(c.Request.Context(), c.Param("id"), actor.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "article deleted"})
}

func (h *ArticleHandler) AddComment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	comment, err := h.articleService.AddComment(c.Request.Context(), c.Param("id"), user, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "comment added", "comment": comment})
}

func (h *ArticleHandler) EditComment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	comment, err := h.articleService.EditComment(c.Request.Context(), c.Param("commentId"), actor.ID, req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "comment updated", "comment": comment})
}

func (h *ArticleHandler) DeleteComment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	if err := h.articleService.DeleteComment(c.Request.Context(), c.Param("commentId"), actor.Role, actor.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "comment deleted"})
}

// RegisterArticleRoutes registers article and comment routes. Reading is
// public; writing requires the right role.
func (h *ArticleHandler) RegisterArticleRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	articleGroup := rg.Group("/articles")
	{
		articleGroup.GET("", h.ListArticles)
		articleGroup.GET("/:id", h.GetArticle)

		articleGroup.POST("", authMW, middleware.DoctorOnly(), h.CreateArticle)
		articleGroup.PATCH("/:id", authMW, middleware.DoctorOnly(), h.UpdateArticle)
		articleGroup.DELETE("/:id", authMW, middleware.DoctorOnly(), h.DeleteArticle)

		articleGroup.POST("/:id/comments", authMW, middleware.UserOnly(), h.AddComment)
		articleGroup.PATCH("/:id/comments/:commentId", authMW, middleware.UserOnly(), h.EditComment)
		articleGroup.DELETE("/:id/comments/:commentId", authMW, middleware.RequireRoles(model.RoleUser, model.RoleAdmin), h.DeleteComment)
	}
}
