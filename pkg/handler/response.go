package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Error struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	entry := logrus.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"status": statusCode,
	})
	// 4xx ошибки клиента, шуметь на уровне error незачем
	if statusCode < http.StatusInternalServerError {
		entry.Warn(message)
	} else {
		entry.Error(message)
	}
	c.AbortWithStatusJSON(statusCode, Error{Message: message})
}

func wrapOkJSON(c *gin.Context, response map[string]interface{}) {
	c.JSON(http.StatusOK, response)
}
