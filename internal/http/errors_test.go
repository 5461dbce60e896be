package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"todo-api/internal/service"
)

func TestWriteServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err      error
		wantCode int
		wantBody string
	}{
		{fmt.Errorf("%w: text must be at least 2 characters", service.ErrValidation), http.StatusBadRequest, `{"error":"validation failed: text must be at least 2 characters"}`},
		{service.ErrConflict, http.StatusBadRequest, `{"error":"email already in use"}`},
		{service.ErrInvalidCredentials, http.StatusBadRequest, `{"error":"invalid credentials"}`},
		{service.ErrNotFound, http.StatusNotFound, `{"error":"not found"}`},
		{service.ErrUnauthorized, http.StatusUnauthorized, `{"error":"User not authorized"}`},
		{service.ErrRateLimited, http.StatusTooManyRequests, `{"error":"too many requests"}`},
		{errors.New("pq: connection refused on 10.0.0.3"), http.StatusInternalServerError, `{"error":"internal error"}`},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		writeServiceError(c, zap.NewNop(), "op", tc.err)

		assert.Equal(t, tc.wantCode, rec.Code, tc.err.Error())
		assert.JSONEq(t, tc.wantBody, rec.Body.String())
	}
}

func TestDecodeCompleted(t *testing.T) {
	assert.Nil(t, decodeCompleted(nil))
	assert.Nil(t, decodeCompleted([]byte(`"true"`)))
	assert.Nil(t, decodeCompleted([]byte(`1`)))

	got := decodeCompleted([]byte(`true`))
	if assert.NotNil(t, got) {
		assert.True(t, *got)
	}
	got = decodeCompleted([]byte(`false`))
	if assert.NotNil(t, got) {
		assert.False(t, *got)
	}
}
