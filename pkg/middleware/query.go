package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequireQuery отклоняет запрос без обязательного query-параметра
func RequireQuery(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.Query(name)
		if value == "" {
			logrus.Warnf("RequireQuery: нет параметра %s в %s", name, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Missing required parameter: " + name})
			return
		}
		c.Set(name, value)
		c.Next()
	}
}
