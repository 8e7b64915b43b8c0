package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/craftlink/craftlink-backend/internal/http/middleware"
)

var errNoUserInContext = errors.New("no authenticated user in context")

// currentUserID extracts the authenticated user ID from the context.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, errNoUserInContext
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, errNoUserInContext
	}

	return userID, nil
}

// currentUserRole extracts the authenticated role from the context.
func currentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", errNoUserInContext
	}

	role, ok := raw.(string)
	if !ok {
		return "", errNoUserInContext
	}

	return role, nil
}

// pathUUID parses a path parameter already checked by UUIDValidator.
func pathUUID(c *gin.Context, name string) uuid.UUID {
	id, _ := uuid.Parse(c.Param(name))
	return id
}

// pagination reads limit/offset query parameters with defaults.
func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
