package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oktavandi/tasknest/internal/application"
	repo "github.com/oktavandi/tasknest/internal/domain/repository"
	"github.com/oktavandi/tasknest/pkg/response"
	"github.com/oktavandi/tasknest/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			response.Error(c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("registration failed")
		response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"token": res.Token,
		"user":  toUserView(res.User),
	}, "registered")
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			// same answer for unknown email and wrong password
			response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  toUserView(res.User),
	}, "login successful")
}
