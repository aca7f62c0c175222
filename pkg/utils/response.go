package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
		},
	})
}

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// SendFragment responde con un fragmento HTML ya renderizado para un contenedor.
func SendFragment(c *gin.Context, statusCode int, html string) {
	c.Data(statusCode, "text/html; charset=utf-8", []byte(html))
}
