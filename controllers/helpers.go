package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"member-portal-api/services"
	"member-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried next to the human message.
const (
	codeValidation = "VALIDATION_ERROR"
	codeConflict   = "CONFLICT"
	codeNotFound   = "NOT_FOUND"
	codeInternal   = "INTERNAL_ERROR"
)

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

func getCurrentRoleID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("roleID"); ok {
		switch t := v.(type) {
		case int:
			return t, true
		case int64:
			return int(t), true
		case float64:
			return int(t), true
		case uint:
			return int(t), true
		}
	}
	return 0, false
}

// queryAlias returns the first non-empty value among the given query keys.
// Clients historically sent some parameters in camelCase.
func queryAlias(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

// listPagination reads the shared pagination parameters, honoring both the
// page_size and legacy pageSize spellings.
func listPagination(c *gin.Context) (page, size, offset int) {
	page = utils.ParsePage(c.Query("page"), 1)
	size = utils.ParsePageSize(queryAlias(c, "page_size", "pageSize"), 20, 100)
	return page, size, (page - 1) * size
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	return parseIDString(c, name, c.Param(name))
}

func parseIDString(c *gin.Context, name, raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name, "code": codeValidation})
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps service sentinel errors onto the HTTP error
// contract. Nothing gets swallowed: unknown errors surface as 500s.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
	case errors.Is(err, services.ErrUnknownEntityType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "The record changed state since you loaded it, please refresh",
			"code":  codeConflict,
		})
	case errors.Is(err, services.ErrEntityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found", "code": codeNotFound})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": codeInternal})
	}
}
