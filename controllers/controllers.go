package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"snaptika-api/errs"
)

// respondError maps the service error taxonomy onto HTTP statuses. Duplicate
// actions belong to the forbidden class, just with a more specific message.
// Anything outside the taxonomy is a storage failure and surfaces as a 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errs.IsConflict(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "Duplicate or conflicting action"})
	case errs.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "Operation not allowed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// pagination reads skip/take query parameters with sane defaults.
func pagination(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	take, _ := strconv.Atoi(c.DefaultQuery("take", "20"))
	if skip < 0 {
		skip = 0
	}
	if take < 1 || take > 50 {
		take = 20
	}
	return skip, take
}
