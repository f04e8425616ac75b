package response

import (
	"Opsboard/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func serve(t *testing.T, err error) envelope {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	require.Equal(t, http.StatusOK, w.Code)
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorMapsSentinels(t *testing.T) {
	body := serve(t, service.ErrOperationNotFound)
	assert.Equal(t, NotFound, body.Code)
	assert.Equal(t, service.ErrOperationNotFound.Error(), body.Message)

	body = serve(t, fmt.Errorf("wrapped: %w", service.UnauthorizedError))
	assert.Equal(t, Forbidden, body.Code)
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	body := serve(t, errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	assert.Equal(t, InternalServerError, body.Code)
	assert.Equal(t, service.UnExpectedError.Error(), body.Message)
}

func TestErrorPicksFirstMatchingSentinel(t *testing.T) {
	joined := errors.Join(service.ErrOperationNotFound, service.UnauthorizedError)
	wrapped := fmt.Errorf("delete: %w, %w", service.ErrConcurrentUpdate, service.ErrParamInvalid)

	for i := 0; i < 50; i++ {
		body := serve(t, joined)
		assert.Equal(t, Forbidden, body.Code)
		assert.Equal(t, service.UnauthorizedError.Error(), body.Message)

		body = serve(t, wrapped)
		assert.Equal(t, BadRequest, body.Code)
	}
}
