package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/storefront/apperrors"
)

// respondError maps an application error onto the response. Unauthorized
// failures carry a login redirect so the surface can route the user there.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := appErr.Code
		if status == 0 {
			status = http.StatusServiceUnavailable
		}
		body := gin.H{"error": appErr.Message}
		if status == http.StatusUnauthorized {
			body["redirect"] = "/login"
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
