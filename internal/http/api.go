package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"comicvault/internal/auth"
	"comicvault/internal/domain"
	"comicvault/internal/service"
)

const userIDKey = "userID"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	comics service.ComicService
	secret []byte
	logger *logrus.Logger
}

func NewHandler(users service.UserService, comics service.ComicService, secret []byte, logger *logrus.Logger) *Handler {
	return &Handler{
		users:  users,
		comics: comics,
		secret: secret,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "comic vault api"})
	})

	authRoutes := router.Group("/auth")
	{
		authRoutes.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "auth routes ready"})
		})
		authRoutes.POST("/register", h.register)
		authRoutes.POST("/login", h.login)
	}

	router.GET("/comics/public", h.publicComics)

	comics := router.Group("/comics", h.requireAuth)
	{
		comics.GET("", h.listComics)
		comics.POST("", h.createComic)
		comics.PUT("/:id", h.updateComic)
		comics.DELETE("/:id", h.deleteComic)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ruta not found"})
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth validates the Bearer token and stores the caller's user id
// in the request context. No storage lookup is performed.
func (h *Handler) requireAuth(c *gin.Context) {
	token, err := auth.ParseBearer(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	userID, err := auth.GetUserIDFromToken(token, h.secret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, err := h.users.Register(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered",
		"userId":  userID,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"userId":  user.ID,
		"name":    user.Name,
	})
}

type createComicRequest struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Year      *int   `json:"year"`
	Publisher string `json:"publisher"`
	Status    string `json:"status"`
}

func (h *Handler) createComic(c *gin.Context) {
	var req createComicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comicID, err := h.comics.Create(c.Request.Context(), c.GetString(userIDKey), service.ComicInput{
		Title:     req.Title,
		Author:    req.Author,
		Year:      req.Year,
		Publisher: req.Publisher,
		Status:    req.Status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "comic created",
		"comicId": comicID,
	})
}

func (h *Handler) listComics(c *gin.Context) {
	page := parseIntOr(c.Query("page"), 1)
	limit := parseIntOr(c.Query("limit"), 10)

	result, err := h.comics.List(
		c.Request.Context(),
		c.GetString(userIDKey),
		page,
		limit,
		c.Query("title"),
		c.Query("status"),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]ComicResponse, len(result.Comics))
	for i := range result.Comics {
		data[i] = comicToResponse(result.Comics[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": gin.H{
			"total":      result.Total,
			"page":       result.Page,
			"limit":      result.Limit,
			"totalPages": result.TotalPages,
		},
	})
}

type updateComicRequest struct {
	Title     *string `json:"title"`
	Author    *string `json:"author"`
	Year      *int    `json:"year"`
	Publisher *string `json:"publisher"`
	Status    *string `json:"status"`
}

func (h *Handler) updateComic(c *gin.Context) {
	var req updateComicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	update := domain.ComicUpdate{
		Title:     req.Title,
		Author:    req.Author,
		Year:      req.Year,
		Publisher: req.Publisher,
	}
	if req.Status != nil {
		status := domain.ComicStatus(*req.Status)
		update.Status = &status
	}

	comic, err := h.comics.Update(c.Request.Context(), c.GetString(userIDKey), c.Param("id"), update)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "comic updated",
		"comic":   comicToResponse(*comic),
	})
}

func (h *Handler) deleteComic(c *gin.Context) {
	if err := h.comics.Delete(c.Request.Context(), c.GetString(userIDKey), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comic deleted"})
}

func (h *Handler) publicComics(c *gin.Context) {
	limit := parseIntOr(c.Query("limit"), 10)

	counts, err := h.comics.PublicPopularity(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]TitleCountResponse, len(counts))
	for i := range counts {
		data[i] = TitleCountResponse{
			Title: counts[i].Title,
			Count: counts[i].Count,
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// respondError maps service errors onto HTTP statuses. Anything
// unexpected is logged and surfaced as a generic 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrComicNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "comic not found or not owned"})
	default:
		h.logger.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseIntOr(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

type ComicResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Author    string             `json:"author"`
	Year      int                `json:"year"`
	Publisher string             `json:"publisher,omitempty"`
	Status    domain.ComicStatus `json:"status"`
	UserID    string             `json:"userId"`
	CreatedAt string             `json:"createdAt"`
	UpdatedAt string             `json:"updatedAt"`
}

type TitleCountResponse struct {
	Title string `json:"title"`
	Count int64  `json:"count"`
}

func comicToResponse(comic domain.Comic) ComicResponse {
	return ComicResponse{
		ID:        comic.ID,
		Title:     comic.Title,
		Author:    comic.Author,
		Year:      comic.Year,
		Publisher: comic.Publisher,
		Status:    comic.Status,
		UserID:    comic.UserID,
		CreatedAt: comic.CreatedAt.Format(time.RFC3339),
		UpdatedAt: comic.UpdatedAt.Format(time.RFC3339),
	}
}
