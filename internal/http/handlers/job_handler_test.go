package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/craftlink/craftlink-backend/internal/http/middleware"
)

func TestJobHandler_Create_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{}
	r.POST("/jobs", handler.Create)

	req, _ := http.NewRequest("POST", "/jobs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJobHandler_Get_InvalidJobID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{}
	r.GET("/jobs/:id", middleware.UUIDValidator("id"), handler.Get)

	req, _ := http.NewRequest("GET", "/jobs/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandler_Accept_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &JobHandler{}
	r.POST("/jobs/:id/accept", middleware.UUIDValidator("id"), handler.Accept)

	req, _ := http.NewRequest("POST", "/jobs/11111111-1111-1111-1111-111111111111/accept", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
