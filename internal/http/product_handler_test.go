package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"storefront-be/internal/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := newTestServer()
		srv.products.On("ListProducts", mock.Anything, mock.Anything).
			Return([]*product.Product{{ID: "p1", Name: "Keyboard", Price: 45}}, nil)

		rec := srv.do(t, "GET", "/api/products", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)

		var items []*product.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "Keyboard", items[0].Name)
	})

	t.Run("Passes filters through", func(t *testing.T) {
		srv := newTestServer()
		srv.products.On("ListProducts", mock.Anything, mock.MatchedBy(func(opts product.ListOptions) bool {
			return opts.Category != nil && *opts.Category == "audio" &&
				opts.Search != nil && *opts.Search == "head" &&
				opts.Sort == "price-asc"
		})).Return([]*product.Product{}, nil)

		rec := srv.do(t, "GET", "/api/products?category=audio&search=head&sort=price-asc", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		srv.products.AssertExpectations(t)
	})
}

func TestProductHandler_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := newTestServer()
		srv.products.On("GetProduct", mock.Anything, "p1").
			Return(&product.Product{ID: "p1", Name: "Keyboard"}, nil)

		rec := srv.do(t, "GET", "/api/products/p1", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Error - Not found", func(t *testing.T) {
		srv := newTestServer()
		srv.products.On("GetProduct", mock.Anything, "missing").
			Return(nil, product.ErrProductNotFound)

		rec := srv.do(t, "GET", "/api/products/missing", nil, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeError(t, rec).Code)
	})
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := newTestServer()
		srv.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in product.NewProductInput) bool {
			return in.Name == "Mouse" && in.Price == 19.9 && in.Stock == 5
		})).Return(&product.Product{ID: "p2", Name: "Mouse", Price: 19.9, Stock: 5}, nil)

		rec := srv.do(t, "POST", "/api/products", map[string]interface{}{
			"name": "Mouse", "price": 19.9, "stock": 5,
		}, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)
		srv.products.AssertExpectations(t)
	})

	t.Run("Error - Validation", func(t *testing.T) {
		srv := newTestServer()
		srv.products.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, product.ErrNameRequired)

		rec := srv.do(t, "POST", "/api/products", map[string]interface{}{"price": 1}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_request", decodeError(t, rec).Code)
	})

	t.Run("Error - Malformed body", func(t *testing.T) {
		srv := newTestServer()

		rec := srv.do(t, "POST", "/api/products", "not-an-object", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandler_Update(t *testing.T) {
	srv := newTestServer()
	srv.products.On("UpdateProduct", mock.Anything, "p1", mock.MatchedBy(func(patch product.UpdateProductInput) bool {
		return patch.Price != nil && *patch.Price == 99.5 && patch.Name == nil
	})).Return(&product.Product{ID: "p1", Price: 99.5}, nil)

	rec := srv.do(t, "PUT", "/api/products/p1", map[string]interface{}{"price": 99.5}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	srv.products.AssertExpectations(t)
}

func TestProductHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv := newTestServer()
		srv.products.On("DeleteProduct", mock.Anything, "p1").Return(nil)

		rec := srv.do(t, "DELETE", "/api/products/p1", nil, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Error - Not found", func(t *testing.T) {
		srv := newTestServer()
		srv.products.On("DeleteProduct", mock.Anything, "missing").
			Return(product.ErrProductNotFound)

		rec := srv.do(t, "DELETE", "/api/products/missing", nil, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
