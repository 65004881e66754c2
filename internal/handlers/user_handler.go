package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"cablestock-service/internal/models"
	"cablestock-service/internal/repository"
)

type UserHandler struct {
	users *repository.UserRepository
}

func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers lists all users
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(users))
}

// CreateUser registers a user with a hashed password
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleEmployee {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("VALIDATION_ERROR", "Role must be Admin or Employee"))
		return
	}

	existing, err := h.users.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse("CONFLICT", "User already exists"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &models.User{
		UserID:       req.UserID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		DepartmentID: req.DepartmentID,
		Role:         req.Role,
		IsActive:     true,
		Password:     string(hash),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse(user))
}

// ListAdminRecipients lists the notification recipient addresses
// GET /api/v1/users/admin-recipients
func (h *UserHandler) ListAdminRecipients(c *gin.Context) {
	emails, err := h.users.AdminEmails(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
		"recipients": emails,
		"count":      len(emails),
	}))
}
