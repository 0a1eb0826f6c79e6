package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/docugrade/docugrade/internal/models"
	"github.com/docugrade/docugrade/pkg/middleware"
)

// mustUser returns the user resolved by the auth middleware. Routes calling it
// are always registered behind middleware.Authenticated.
func mustUser(c *gin.Context) *models.User {
	u, _ := middleware.CurrentUser(c)
	return u
}
