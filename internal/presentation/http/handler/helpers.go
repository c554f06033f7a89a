package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/internal/domain/pricing"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/middleware"
)

// GetOperatorName returns the display name of the logged-in operator, or "" when auth is off
func GetOperatorName(c *gin.Context) string {
	username, name := middleware.GetOperator(c)
	if name != "" {
		return name
	}
	return username
}

// parseChangedField reads the optional changed_field value
func parseChangedField(s string) (pricing.Field, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return pricing.ParseField(s)
}

// attachment sets the download headers for a generated file
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
