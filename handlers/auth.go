package handlers

import (
	"net/http"
	"time"

	"quill/models"
	"quill/service"
	"quill/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookieSettings describes the session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	base
	auth     *service.AuthService
	sessions *session.Manager
	cookie   CookieSettings
}

func NewAuthHandler(auth *service.AuthService, sessions *session.Manager, cookie CookieSettings, log *zap.Logger, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		base:     base{log: log, timeout: timeout},
		auth:     auth,
		sessions: sessions,
		cookie:   cookie,
	}
}

type accountResponse struct {
	User models.AccountView `json:"user"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !h.bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.auth.Register(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusCreated, accountResponse{User: user.Account()})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.auth.Login(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !h.startSession(c, user) {
		return
	}
	c.JSON(http.StatusOK, accountResponse{User: user.Account()})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.caller(c)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	user, err := h.auth.Me(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accountResponse{User: user.Account()})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	token, err := h.sessions.Issue(user.ID.Hex())
	if err != nil {
		h.fail(c, err)
		return false
	}
	h.setCookie(c, token, int(h.sessions.TTL().Seconds()))
	return true
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
