package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"blog_platform/internal/middleware"
	"blog_platform/internal/model"
	"blog_platform/internal/service"

	"github.com/gin-gonic/gin"
)

// PostHandler handles post lifecycle and public article requests
type PostHandler struct {
	service service.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{service: s}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

// respondPostError maps the service error taxonomy to HTTP status codes
func respondPostError(c *gin.Context, err error, logContext string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSlugConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Error %s: %v", logContext, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + logContext})
	}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		respondPostError(c, err, "create post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetMyPosts(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var filters model.MyPostFilters
	if statusParam := c.Query("status"); statusParam != "" {
		if !model.ValidStatus(statusParam) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filters.Status = &statusParam
	}

	posts, err := h.service.GetMyPosts(c.Request.Context(), userID, filters)
	if err != nil {
		respondPostError(c, err, "retrieve posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPostByID(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.service.GetPostByID(c.Request.Context(), postID, userID, userRole)
	if err != nil {
		respondPostError(c, err, "retrieve post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), postID, userID, userRole, req)
	if err != nil {
		respondPostError(c, err, "update post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), postID, userID, userRole); err != nil {
		respondPostError(c, err, "delete post")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) SubmitPost(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.service.SubmitPost(c.Request.Context(), postID, userID, userRole)
	if err != nil {
		respondPostError(c, err, "submit post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// --- Admin Handlers ---

func (h *PostHandler) GetPendingPosts(c *gin.Context) {
	posts, err := h.service.GetPendingPosts(c.Request.Context())
	if err != nil {
		respondPostError(c, err, "retrieve pending posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) ApprovePost(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.service.PublishPost(c.Request.Context(), postID, userID, userRole)
	if err != nil {
		respondPostError(c, err, "approve post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) RejectPost(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	userRole, err := getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	post, err := h.service.RejectPost(c.Request.Context(), postID, userID, userRole)
	if err != nil {
		respondPostError(c, err, "reject post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// --- Public Handlers ---

func (h *PostHandler) GetPublicArticles(c *gin.Context) {
	page := model.PublicPostPage{Limit: 10, Offset: 0}

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 || limit > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit, must be between 1 and 100"})
			return
		}
		page.Limit = limit
	}
	if offsetParam := c.Query("offset"); offsetParam != "" {
		offset, err := strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
			return
		}
		page.Offset = offset
	}

	articles, err := h.service.GetPublishedPosts(c.Request.Context(), page)
	if err != nil {
		respondPostError(c, err, "retrieve articles")
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *PostHandler) GetArticleBySlug(c *gin.Context) {
	slug := c.Param("slug")

	article, err := h.service.GetArticleBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found or not published"})
			return
		}
		respondPostError(c, err, "retrieve article")
		return
	}
	c.JSON(http.StatusOK, article)
}

// RegisterPostRoutes registers post, admin review and public article routes
func (h *PostHandler) RegisterPostRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, adminMW gin.HandlerFunc) {
	// Author routes (requires auth, any authenticated user)
	postRoutes := rg.Group("/posts")
	postRoutes.Use(authMW)
	{
		postRoutes.POST("", h.CreatePost)
		postRoutes.GET("/me", h.GetMyPosts)
		postRoutes.GET("/:id", h.GetPostByID)      // Service layer handles ownership for non-admins
		postRoutes.PUT("/:id", h.UpdatePost)       // Service layer handles ownership and draft-only rule
		postRoutes.DELETE("/:id", h.DeletePost)    // Service layer handles ownership and draft-only rule
		postRoutes.POST("/:id/submit", h.SubmitPost)
	}

	// Admin review routes
	adminRoutes := rg.Group("/admin")
	adminRoutes.Use(authMW)
	adminRoutes.Use(adminMW)
	{
		adminRoutes.GET("/reviews", h.GetPendingPosts)
		adminRoutes.POST("/reviews/:id/approve", h.ApprovePost)
		adminRoutes.POST("/reviews/:id/reject", h.RejectPost)
	}

	// Public article routes (no auth)
	articleRoutes := rg.Group("/articles")
	{
		articleRoutes.GET("", h.GetPublicArticles)
		articleRoutes.GET("/:slug", h.GetArticleBySlug)
	}
}
