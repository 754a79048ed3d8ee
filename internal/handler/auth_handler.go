package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walletly/internal/middleware"
	"walletly/internal/models"
	"walletly/internal/service"
	"walletly/pkg/cloudinary"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "name, email and password are required"})
		return
	}
	u, access, refresh, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	sessionResponse(c, u, access, refresh)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "email and password are required"})
		return
	}
	u, access, refresh, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	sessionResponse(c, u, access, refresh)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "refresh_token is required"})
		return
	}
	u, access, refresh, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	sessionResponse(c, u, access, refresh)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.authSvc.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, u)
}

// UpdateMe updates the profile name and avatar. Accepts multipart form data
// with an optional "image" file, or an "image_url" for an already-hosted
// avatar.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	src, cleanup, err := imageSource(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": "could not read image"})
		return
	}
	defer cleanup()

	u, svcErr := h.authSvc.UpdateUser(c.Request.Context(), middleware.GetUserID(c), c.PostForm("name"), src)
	if svcErr != nil {
		fail(c, svcErr)
		return
	}
	ok(c, u)
}

func sessionResponse(c *gin.Context, u *models.User, access, refresh string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user":          u,
			"access_token":  access,
			"refresh_token": refresh,
		},
	})
}

// imageSource builds an upload source from a multipart request: a local
// "image" file wins over an "image_url" string. The returned cleanup closes
// the opened file, if any.
func imageSource(c *gin.Context) (cloudinary.Source, func(), error) {
	noop := func() {}
	if url := c.PostForm("image_url"); url != "" {
		return cloudinary.Source{URL: url}, noop, nil
	}
	file, err := c.FormFile("image")
	if err != nil {
		// No file field at all is fine.
		return cloudinary.Source{}, noop, nil
	}
	f, err := file.Open()
	if err != nil {
		return cloudinary.Source{}, noop, err
	}
	return cloudinary.Source{File: f}, func() { f.Close() }, nil
}
