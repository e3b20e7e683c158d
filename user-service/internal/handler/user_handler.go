package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/dto"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/middleware"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	Save(ctx context.Context, user *dto.User) (*dto.User, error)
	DeleteByID(ctx context.Context, id int) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	ListAll(ctx context.Context) ([]*dto.User, error)
	GetByID(ctx context.Context, id int) (*dto.User, error)
	GetByEmail(ctx context.Context, email string) (*dto.User, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
}

// UserHandler routes requests to the command or query service as appropriate.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
	log      *zap.SugaredLogger
}

func NewUserHandler(commands UserCommander, queries UserQuerier, log *zap.SugaredLogger) *UserHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &UserHandler{commands: commands, queries: queries, log: log}
}

// Register mounts the user routes under /api/users. The protect handlers run
// in front of the routes that modify an existing user.
func (h *UserHandler) Register(r gin.IRouter, protect ...gin.HandlerFunc) {
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, protect...), handler)
	}

	users := r.Group("/api/users")
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.GET("/email/:email", h.GetUserByEmail)
	users.GET("/:userId", h.GetUser)
	users.PUT("", guarded(h.UpdateUserFromBody)...)
	users.PUT("/:userId", guarded(h.UpdateUser)...)
	users.DELETE("/:userId", guarded(h.DeleteUser)...)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.queries.ListAll(c.Request.Context())
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.queries.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.queries.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	req, ok := bindUser(c)
	if !ok {
		return
	}
	req.UserID = 0

	user, err := h.save(c, req, "")
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser replaces the user named in the path.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	req, ok := bindUser(c)
	if !ok {
		return
	}
	req.UserID = userID
	h.update(c, req)
}

// UpdateUserFromBody replaces the user named by the body's userId.
func (h *UserHandler) UpdateUserFromBody(c *gin.Context) {
	req, ok := bindUser(c)
	if !ok {
		return
	}
	if req.UserID <= 0 {
		middleware.RespondWithValidationError(c, []middleware.ValidationError{{
			Field: "UserID", Message: "This field is required", Type: "required",
		}})
		return
	}
	h.update(c, req)
}

func (h *UserHandler) update(c *gin.Context, req *dto.User) {
	if !authorize(c, req.UserID) {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only update your own user details")
		return
	}
	if !h.exists(c, req.UserID) {
		return
	}
	current, ok := h.storedPassword(c, req)
	if !ok {
		return
	}

	user, err := h.save(c, req, current)
	if err != nil {
		h.respondWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	if !authorize(c, userID) {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only delete your own account")
		return
	}
	if !h.exists(c, userID) {
		return
	}

	if err := h.commands.DeleteByID(c.Request.Context(), userID); err != nil {
		h.respondWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// save bcrypt-encodes the credential password before handing the user over.
// Only current, the hash already on record, is passed through unchanged.
func (h *UserHandler) save(c *gin.Context, req *dto.User, current string) (*dto.User, error) {
	if req.Credential != nil {
		encoded, err := utils.EncodePassword(req.Credential.Password, current)
		if err != nil {
			return nil, err
		}
		req.Credential.Password = encoded
	}
	return h.commands.Save(c.Request.Context(), req)
}

// storedPassword looks up the credential hash on record when the request
// carries a hash-shaped password, so that an unchanged hash is kept.
func (h *UserHandler) storedPassword(c *gin.Context, req *dto.User) (string, bool) {
	if req.Credential == nil || !utils.IsPasswordHash(req.Credential.Password) {
		return "", true
	}
	stored, err := h.queries.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		h.respondWithServiceError(c, err)
		return "", false
	}
	if stored.Credential == nil {
		return "", true
	}
	return stored.Credential.Password, true
}

// exists writes a 404 (or 500) and returns false when the user is missing.
func (h *UserHandler) exists(c *gin.Context, userID int) bool {
	found, err := h.queries.ExistsByID(c.Request.Context(), userID)
	if err != nil {
		h.respondWithServiceError(c, err)
		return false
	}
	if !found {
		h.respondWithServiceError(c, models.NewNotFound("user", "id", userID))
		return false
	}
	return true
}

func (h *UserHandler) respondWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		middleware.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrValidation):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Errorw("user request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// authorize allows the request when no token was checked, when the token
// belongs to the user, or when it carries the admin role.
func authorize(c *gin.Context, userID int) bool {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return true
	}
	return claims.CanAccess(userID)
}

func parseUserID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil || id <= 0 {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid user id")
		return 0, false
	}
	return id, true
}

func bindUser(c *gin.Context) (*dto.User, bool) {
	var req dto.User
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return nil, false
	}
	return &req, true
}
