package utils

import "github.com/gin-gonic/gin"

// Error writes the error payload the SPA expects: {"error": message}.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}
