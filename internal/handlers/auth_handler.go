package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httpresp"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/middleware"
	ucAccount "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/account"
)

type AuthHandler struct {
	accounts *ucAccount.Accounts
}

func NewAuthHandler(accounts *ucAccount.Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// --------- Requests ---------

// Field rules beyond presence live in the account use case so that the
// error codes stay specific.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.accounts.Register(c.Request.Context(), ucAccount.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "account created", s)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "logged in", s)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.accounts.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "token refreshed", s)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), middleware.Actor(c)); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.accounts.Me(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "", u)
}
