package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waves-backend/internal/service/account"
)

func (h *handlers) register(c *gin.Context) {
	var req account.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid register body")
		return
	}

	if _, err := h.deps.AccountSvc.Register(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid login body")
		return
	}

	_, token, err := h.deps.AccountSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"loginSuccess": false,
			"message":      "auth failed",
		})
		return
	}

	c.SetCookie(authCookie, token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"loginSuccess": true})
}

func (h *handlers) logout(c *gin.Context) {
	u := currentUser(c)
	if err := h.deps.AccountSvc.Logout(c.Request.Context(), u.ID); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(authCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) authProfile(c *gin.Context) {
	u := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"isAdmin":  u.IsAdmin(),
		"isAuth":   true,
		"email":    u.Email,
		"name":     u.Name,
		"lastname": u.Lastname,
		"address":  u.Address,
		"phone":    u.Phone,
		"role":     u.Role,
		"cart":     u.Cart,
		"history":  u.History,
	})
}

type resetUserRequest struct {
	Email string `json:"email"`
}

func (h *handlers) resetUser(c *gin.Context) {
	var req resetUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid reset body")
		return
	}
	if err := h.deps.AccountSvc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type resetPasswordRequest struct {
	ResetToken string `json:"resetToken"`
	Password   string `json:"password"`
}

func (h *handlers) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid reset password body")
		return
	}
	if err := h.deps.AccountSvc.ResetPassword(c.Request.Context(), req.ResetToken, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) updateProfile(c *gin.Context) {
	u := currentUser(c)

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, "invalid profile body")
		return
	}

	if err := h.deps.AccountSvc.UpdateProfile(c.Request.Context(), u.ID, fields); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
