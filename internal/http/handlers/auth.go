package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Password string `json:"password"`
}

// Auth validates the shared access code. With no code configured every
// submission passes. The failure body is the same either way so callers
// cannot tell whether a code is configured.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !h.Gate.Authenticate(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
