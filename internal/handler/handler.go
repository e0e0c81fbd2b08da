package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/push-api/pkg/errors"
)

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Validation("invalid "+name, err)
	}
	return id, nil
}

// Deleted is the body returned by every DELETE endpoint.
func Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
