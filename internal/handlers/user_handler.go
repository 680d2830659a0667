package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httperr"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/httpresp"
	"github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/middleware"
	ucAccount "github.com/Suhel-Shaikh-Mohammad/SkipTheQueue/internal/usecase/account"
)

type UserHandler struct {
	accounts *ucAccount.Accounts
}

func NewUserHandler(accounts *ucAccount.Accounts) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserHandler) List(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}

	list, total, err := h.accounts.List(c.Request.Context(), middleware.Actor(c), page)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list, total)
}

func (h *UserHandler) SetRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SetRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.accounts.SetRole(c.Request.Context(), middleware.Actor(c), id, req.Role)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, "role updated", u)
}
