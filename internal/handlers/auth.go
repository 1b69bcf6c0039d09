package handlers

import (
	"net/http"
	"strings"

	"askhive/internal/db"
	"askhive/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		Fail(c, http.StatusConflict, "username or email already taken")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	_ = session.Save()

	OK(c, user)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			Fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		Fail(c, http.StatusInternalServerError, "login failed")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		Fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	_ = session.Save()

	OK(c, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	OK(c, nil)
}
