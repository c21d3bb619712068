package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invosync/internal/service"
)

// ProfileHandler serves user profile reads.
type ProfileHandler struct {
	userService service.UserService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService service.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_UID", "uid is required")
		return
	}

	profile, err := h.userService.Profile(c.Request.Context(), uid)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}
