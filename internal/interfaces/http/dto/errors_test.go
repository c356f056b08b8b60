package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	t.Run("maps known codes", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, GetHTTPStatus("PRODUCT_NOT_FOUND"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("PRICE_MISMATCH"))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus("DUPLICATE_SKU"))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("INSUFFICIENT_STOCK"))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus("EMPTY_CART"))
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("PERSISTENCE_FAILURE"))
	})

	t.Run("INVALID_ prefix maps to bad request", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_LOCATION"))
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_DISCOUNT"))
		assert.Equal(t, http.StatusBadRequest, GetHTTPStatus("INVALID_RANGE"))
	})

	t.Run("unknown codes map to internal error", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_ELSE"))
	})
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta(nil, 41, 1, 20)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("defaults page size", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta(nil, 10, 0, 0)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
	})
}
