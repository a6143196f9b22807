package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"snaptika-api/errs"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", errs.ErrNotFound, http.StatusNotFound},
		{"forbidden", errs.ErrForbidden, http.StatusForbidden},
		// Duplicate actions (double-like, self-follow) are part of the
		// forbidden class at the HTTP surface.
		{"duplicate action", errs.ErrConflict, http.StatusForbidden},
		{"wrapped duplicate", errors.Join(errs.ErrConflict, errors.New("post already liked")), http.StatusForbidden},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tt.err, "something failed")
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestPaginationDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		skip  int
		take  int
	}{
		{"", 0, 20},
		{"skip=10&take=5", 10, 5},
		{"skip=-3&take=0", 0, 20},
		{"take=500", 0, 20},
		{"skip=abc&take=xyz", 0, 20},
	}

	for _, tt := range tests {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)

		skip, take := pagination(c)
		assert.Equal(t, tt.skip, skip, "query %q", tt.query)
		assert.Equal(t, tt.take, take, "query %q", tt.query)
	}
}
