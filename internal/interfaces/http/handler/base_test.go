package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("domain error maps to its status and code", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, shared.ErrTillAlreadyOpen)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "TILL_ALREADY_OPEN", resp.Error.Code)
	})

	t.Run("wrapped domain error still maps", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, fmt.Errorf("checkout: %w", shared.ErrOutOfStock))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "OUT_OF_STOCK", resp.Error.Code)
	})

	t.Run("unknown error becomes 500", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestParseID(t *testing.T) {
	t.Run("valid uuid", func(t *testing.T) {
		c, _ := newTestContext()
		c.Params = gin.Params{{Key: "id", Value: "7e2f1a34-9f52-4a1b-8a68-6d9a27a1f9f3"}}

		id, ok := parseID(c)
		assert.True(t, ok)
		assert.Equal(t, "7e2f1a34-9f52-4a1b-8a68-6d9a27a1f9f3", id.String())
	})

	t.Run("garbage id is a 400", func(t *testing.T) {
		c, w := newTestContext()
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		_, ok := parseID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
