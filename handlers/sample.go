package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSample registers the trivial echo endpoint used for smoke tests.
func RegisterSample(rg *gin.RouterGroup) {
	rg.GET("/echo", func(c *gin.Context) {
		msg := c.DefaultQuery("msg", "Hello")
		c.JSON(http.StatusOK, gin.H{"reply": msg})
	})
}
